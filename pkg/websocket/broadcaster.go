// Package websocket streams decoded channel frames to websocket clients.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/rcrx/pkg/rx"
)

// DefaultClientBacklog is the number of frames queued per client
// before frames are dropped for that client.
const DefaultClientBacklog = 4

// Message is the JSON form of a frame sent to clients.
type Message struct {
	Seq    uint64    `json:"seq"`
	Time   time.Time `json:"time"`
	Values []float64 `json:"values"`
	Raw    []uint16  `json:"raw"`
}

// NewMessage converts a frame.
func NewMessage(frame *rx.Frame) *Message {
	return &Message{
		Seq:    frame.Seq,
		Time:   frame.Time,
		Values: frame.Values[:],
		Raw:    frame.Raw[:],
	}
}

type client struct {
	conn    *websocket.Conn
	frames  chan []byte
	dropped uint64
}

// Broadcaster is an http.Handler accepting websocket clients and
// a FrameHandler sending every frame to all connected clients.
type Broadcaster struct {
	Backlog int

	lock    sync.Mutex
	clients map[*client]struct{}
}

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		Backlog: DefaultClientBacklog,
		clients: make(map[*client]struct{}),
	}
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.clients)
}

// ServeHTTP implements http.Handler.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(b.serveConn).ServeHTTP(w, r)
}

// HandleFrame implements rx.FrameHandler.
// It never blocks: a client not keeping up misses frames.
func (b *Broadcaster) HandleFrame(ctx context.Context, frame *rx.Frame) error {
	data, err := json.Marshal(NewMessage(frame))
	if err != nil {
		return err
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	for c := range b.clients {
		select {
		case c.frames <- data:
		default:
			c.dropped++
			if c.dropped == 1 || c.dropped%100 == 0 {
				glog.Warningf("websocket client %s: %d frames dropped", c.conn.Request().RemoteAddr, c.dropped)
			}
		}
	}
	return nil
}

func (b *Broadcaster) add(c *client) {
	b.lock.Lock()
	b.clients[c] = struct{}{}
	b.lock.Unlock()
}

func (b *Broadcaster) remove(c *client) {
	b.lock.Lock()
	delete(b.clients, c)
	b.lock.Unlock()
}

func (b *Broadcaster) serveConn(conn *websocket.Conn) {
	backlog := b.Backlog
	if backlog <= 0 {
		backlog = DefaultClientBacklog
	}
	c := &client{conn: conn, frames: make(chan []byte, backlog)}
	b.add(c)
	defer b.remove(c)
	addr := conn.Request().RemoteAddr
	glog.Infof("websocket client %s connected", addr)
	defer glog.Infof("websocket client %s disconnected", addr)

	// Incoming messages are ignored; the read side only detects close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		var msg []byte
		for {
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case data := <-c.frames:
			if err := websocket.Message.Send(conn, string(data)); err != nil {
				glog.Warningf("websocket client %s: %v", addr, err)
				return
			}
		}
	}
}
