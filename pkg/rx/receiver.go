package rx

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rcrx/pkg/framework"
)

// Frame is a completed channel cycle.
type Frame struct {
	Seq    uint64
	Time   time.Time
	Values Channels
	Raw    RawChannels
	Stats  Stats
}

// FrameHandler is called when a channel cycle completes.
type FrameHandler interface {
	HandleFrame(context.Context, *Frame) error
}

// HandleFrameFunc is func type of FrameHandler.
type HandleFrameFunc func(context.Context, *Frame) error

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(ctx context.Context, frame *Frame) error {
	return f(ctx, frame)
}

// FrameHandlers dispatches a frame to every handler.
type FrameHandlers []FrameHandler

// HandleFrame implements FrameHandler.
func (h FrameHandlers) HandleFrame(ctx context.Context, frame *Frame) error {
	var errs fx.AggregatedError
	for _, handler := range h {
		errs.Add(handler.HandleFrame(ctx, frame))
	}
	return errs.Aggregate()
}

// LinkState indicates whether cycles are arriving.
type LinkState int

const (
	// LinkUnknown is the state before the first cycle or timeout.
	LinkUnknown LinkState = iota
	// LinkUp means cycles are arriving within the timeout.
	LinkUp
	// LinkLost means no cycle arrived within the timeout.
	LinkLost
)

// String implements fmt.Stringer.
func (s LinkState) String() string {
	switch s {
	case LinkUp:
		return "up"
	case LinkLost:
		return "lost"
	}
	return "unknown"
}

// LinkNotifier is called when the link state changed.
type LinkNotifier interface {
	LinkChanged(context.Context, LinkState)
}

// LinkChangedFunc is func type of LinkNotifier.
type LinkChangedFunc func(context.Context, LinkState)

// LinkChanged implements LinkNotifier.
func (f LinkChangedFunc) LinkChanged(ctx context.Context, state LinkState) {
	f(ctx, state)
}

// LinkNotifiers dispatches link changes to every notifier.
type LinkNotifiers []LinkNotifier

// LinkChanged implements LinkNotifier.
func (n LinkNotifiers) LinkChanged(ctx context.Context, state LinkState) {
	for _, notifier := range n {
		notifier.LinkChanged(ctx, state)
	}
}

// Receiver reads a byte stream and delivers channel cycles.
type Receiver struct {
	Reader   io.Reader
	Handler  FrameHandler
	Notifier LinkNotifier
	// Timeout is the maximum interval between cycles before the link
	// is reported lost. 0 disables link supervision.
	Timeout time.Duration
	// StatsInterval controls how often decoding stats are logged.
	// 0 disables stats logging.
	StatsInterval time.Duration
	// ReadSize is the size of the read buffer.
	ReadSize int

	decoder   *Decoder
	seq       uint64
	link      LinkState
	linkTimer <-chan time.Time
	lastStats Stats
}

// NewReceiver creates a Receiver.
func NewReceiver(r io.Reader) *Receiver {
	return &Receiver{
		Reader:        r,
		Timeout:       500 * time.Millisecond,
		StatsInterval: 10 * time.Second,
		ReadSize:      64,
		decoder:       NewDecoder(),
	}
}

// Name implements Named.
func (r *Receiver) Name() string {
	return "receiver"
}

// Link gets the current link state. It is only safe to call from the
// Handler or Notifier.
func (r *Receiver) Link() LinkState {
	return r.link
}

// Run reads and decodes until the context is canceled or the reader fails.
func (r *Receiver) Run(ctx context.Context) error {
	if r.Handler == nil {
		return ErrNoHandler
	}
	if r.decoder == nil {
		r.decoder = NewDecoder()
	}

	chunkCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go r.readLoop(subCtx, chunkCh, errCh)

	var statsCh <-chan time.Time
	if r.StatsInterval > 0 {
		ticker := time.NewTicker(r.StatsInterval)
		defer ticker.Stop()
		statsCh = ticker.C
	}
	r.restartTimer()

	for {
		select {
		case chunk := <-chunkCh:
			r.process(ctx, chunk)
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-r.linkTimer:
			r.linkTimer = nil
			r.setLink(ctx, LinkLost)
		case <-statsCh:
			r.reportStats()
		}
	}
}

func (r *Receiver) readLoop(ctx context.Context, chunkCh chan []byte, errCh chan error) {
	size := r.ReadSize
	if size <= 0 {
		size = FrameSize
	}
	buf := make([]byte, size)
	for {
		n, err := r.Reader.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case chunkCh <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

func (r *Receiver) process(ctx context.Context, chunk []byte) {
	for values, ok := r.decoder.CheckForNewMessages(chunk); ok; values, ok = r.decoder.CheckForNewMessages(nil) {
		r.decoder.Clear()
		r.seq++
		frame := &Frame{
			Seq:    r.seq,
			Time:   time.Now(),
			Values: values,
			Raw:    r.decoder.RawChannels(),
			Stats:  r.decoder.Stats(),
		}
		r.restartTimer()
		r.setLink(ctx, LinkUp)
		if err := r.Handler.HandleFrame(ctx, frame); err != nil {
			glog.Errorf("frame %d handler error: %v", frame.Seq, err)
		}
	}
}

func (r *Receiver) restartTimer() {
	if r.Timeout > 0 {
		r.linkTimer = time.After(r.Timeout)
	}
}

func (r *Receiver) setLink(ctx context.Context, state LinkState) {
	if r.link == state {
		return
	}
	r.link = state
	if state == LinkLost {
		glog.Warningf("link lost: no channel cycle in %s", r.Timeout)
	} else {
		glog.Infof("link %s", state)
	}
	if n := r.Notifier; n != nil {
		n.LinkChanged(ctx, state)
	}
}

func (r *Receiver) reportStats() {
	stats := r.decoder.Stats()
	glog.Infof("rx stats: %s", stats.Sub(r.lastStats))
	r.lastStats = stats
}
