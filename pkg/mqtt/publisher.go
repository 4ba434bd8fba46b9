package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/rcrx/pkg/msgs"
	"github.com/robotalks/rcrx/pkg/rx"
)

// Meta describes a receiver on its meta topic.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Channels    int               `json:"channels"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Topic suffixes below <prefix><id>/.
const (
	TopicChannels = "channels"
	TopicStats    = "stats"
	TopicLink     = "link"
	TopicMeta     = "meta"
)

// Publisher publishes channel frames of one receiver.
// It implements rx.FrameHandler and rx.LinkNotifier.
type Publisher struct {
	Queue *Queue
	ID    string
	// StatsEvery publishes decoder stats every N frames. 0 disables.
	StatsEvery uint64
	// Timeout bounds how long a publish may block the receiver.
	Timeout time.Duration

	metaJSON string
}

// NewPublisher creates a Publisher.
func NewPublisher(brokerURL, id string, meta Meta) (*Publisher, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+id+"/"+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("rcrx:" + id)
	}
	p := &Publisher{
		Queue:      NewQueue(opts, topicPrefix),
		ID:         id,
		StatsEvery: 50,
		Timeout:    100 * time.Millisecond,
		metaJSON:   string(metaJSON),
	}
	p.Queue.OnConnect = func(*Queue) { p.onConnected() }
	return p, nil
}

// Topic returns the full topic (without queue prefix) for suffix.
func (p *Publisher) Topic(suffix string) string {
	return p.ID + "/" + suffix
}

// Name implements Named.
func (p *Publisher) Name() string {
	return "mqtt"
}

// HandleFrame implements rx.FrameHandler.
func (p *Publisher) HandleFrame(ctx context.Context, frame *rx.Frame) error {
	if err := p.publish(TopicChannels, msgs.NewChannelFrame(frame), 0, false); err != nil {
		return err
	}
	if p.StatsEvery > 0 && frame.Seq%p.StatsEvery == 0 {
		return p.publish(TopicStats, msgs.NewReceiverStats(frame.Stats), 0, false)
	}
	return nil
}

// LinkChanged implements rx.LinkNotifier.
func (p *Publisher) LinkChanged(ctx context.Context, state rx.LinkState) {
	if err := p.publish(TopicLink, msgs.NewLinkStatus(state, time.Now()), 1, true); err != nil {
		glog.Warningf("publish link %s error: %v", state, err)
	}
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	if token := p.Queue.Connect(); token.Wait() && token.Error() != nil {
		// auto reconnect keeps trying in the background.
		glog.Warningf("mqtt connect error: %v", token.Error())
	}
	<-ctx.Done()
	p.Queue.PubWith(p.Topic(TopicMeta), nil, 1, true).WaitTimeout(p.Timeout)
	p.Queue.Close()
	return ctx.Err()
}

func (p *Publisher) publish(suffix string, msg proto.Message, qos byte, retain bool) error {
	payload, err := msgs.Encode(msg)
	if err != nil {
		return err
	}
	token := p.Queue.PubWith(p.Topic(suffix), payload, qos, retain)
	if p.Timeout <= 0 {
		token.Wait()
	} else if !token.WaitTimeout(p.Timeout) {
		// still in flight, paho owns it from here.
		return nil
	}
	return token.Error()
}

func (p *Publisher) onConnected() {
	p.Queue.PubWith(p.Topic(TopicMeta), []byte(p.metaJSON), 1, true)
}
