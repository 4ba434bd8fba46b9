package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/rcrx/pkg/env"
	"github.com/robotalks/rcrx/pkg/framework"
	"github.com/robotalks/rcrx/pkg/rx"
	"github.com/robotalks/rcrx/pkg/serial"
	"github.com/robotalks/rcrx/pkg/websocket"
)

func init() {
	env.SetupFlags()
	serial.SetupFlags()
}

func main() {
	flag.Parse()

	conf := env.NewConfig()
	port, err := serial.NewConfig().Open()
	if err != nil {
		log.Fatalln(err)
	}

	var (
		handlers  rx.FrameHandlers
		notifiers rx.LinkNotifiers
		runners   []framework.Runnable
	)

	pub, err := conf.NewPublisher()
	if err != nil {
		log.Fatalln(err)
	}
	if pub != nil {
		handlers = append(handlers, pub)
		notifiers = append(notifiers, pub)
		runners = append(runners, pub)
	}

	if conf.HTTPAddr != "" {
		broadcaster := websocket.NewBroadcaster()
		handlers = append(handlers, broadcaster)
		runners = append(runners, &websocket.Server{Addr: conf.HTTPAddr, Handler: broadcaster})
	}

	if len(handlers) == 0 {
		log.Fatalln(rx.ErrNoHandler)
	}

	receiver := rx.NewReceiver(port)
	receiver.Handler = handlers
	receiver.Notifier = notifiers
	runners = append(runners, framework.NamedRun(receiver.Name(), framework.RunFunc(func(ctx context.Context) error {
		return framework.RunWithContextCloser(ctx, port, func() error {
			return receiver.Run(ctx)
		})
	})))

	framework.NewRunner().HandleSignals().RunOrFail(runners...)
}
