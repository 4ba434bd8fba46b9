package websocket

import (
	"context"
	"net/http"

	"github.com/golang/glog"

	"github.com/robotalks/rcrx/pkg/framework"
)

// Server serves a handler over HTTP until the context is canceled.
type Server struct {
	Addr    string
	Handler http.Handler
}

// Name implements Named.
func (s *Server) Name() string {
	return "http"
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler}
	glog.Infof("http listening on %s", s.Addr)
	return framework.RunWithContextCancel(ctx, func() {
		srv.Shutdown(context.Background())
	}, func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}
