// Package sse pushes article changes to browsers as Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeArticleCreated = "article.created"
	TypeArticleUpdated = "article.updated"
	TypeArticleDeleted = "article.deleted"
	TypeIndexUpdated   = "index.updated"
)

var articleTypes = map[string]string{
	"created": TypeArticleCreated,
	"updated": TypeArticleUpdated,
	"deleted": TypeArticleDeleted,
}

// Event is one message on the stream. An empty Section reaches every
// client; otherwise only clients following that section (or all sections)
// receive it.
type Event struct {
	Type    string `json:"type"`
	Section string `json:"section,omitempty"`
	Data    any    `json:"data"`
}

// Client is a subscription handle. C is closed when the client is removed
// or the broker stops.
type Client struct {
	C       <-chan []byte
	ch      chan []byte
	section string
}

// Option configures a Broker.
type Option func(*Broker)

// WithHeartbeat sets the comment ping interval that keeps idle streams open
// through proxies. Zero disables it.
func WithHeartbeat(d time.Duration) Option {
	return func(b *Broker) { b.heartbeat = d }
}

// WithClientBuffer sets how many messages a slow client may lag behind
// before new ones are dropped for it.
func WithClientBuffer(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// Broker fans events out to SSE clients.
//
// The run loop is the only goroutine touching the client set and the
// per-section throttle clocks.
type Broker struct {
	throttle  time.Duration
	heartbeat time.Duration
	buffer    int

	join   chan *Client
	leave  chan *Client
	events chan Event
	counts chan chan int

	dropped atomic.Int64
	closed  atomic.Bool
	stop    chan struct{}
	done    chan struct{}
}

// NewBroker starts a broker that emits index.updated at most once per
// indexThrottle for each section.
func NewBroker(indexThrottle time.Duration, opts ...Option) *Broker {
	if indexThrottle <= 0 {
		indexThrottle = 2 * time.Second
	}
	b := &Broker{
		throttle:  indexThrottle,
		heartbeat: 30 * time.Second,
		buffer:    64,
		join:      make(chan *Client),
		leave:     make(chan *Client),
		events:    make(chan Event, 256),
		counts:    make(chan chan int),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.done)

	clients := make(map[*Client]struct{})
	lastIndex := make(map[string]time.Time)

	send := func(e Event) {
		payload, err := json.Marshal(e.Data)
		if err != nil {
			return
		}
		msg := []byte(fmt.Sprintf("id: %s\nevent: %s\ndata: %s\n\n", uuid.NewString(), e.Type, payload))
		for c := range clients {
			if c.section != "" && e.Section != "" && c.section != e.Section {
				continue
			}
			select {
			case c.ch <- msg:
			default:
				b.dropped.Add(1)
			}
		}
	}

	for {
		select {
		case <-b.stop:
			for c := range clients {
				close(c.ch)
			}
			return

		case c := <-b.join:
			clients[c] = struct{}{}

		case c := <-b.leave:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.ch)
			}

		case e := <-b.events:
			send(e)
			if kindOf(e.Type) == "" {
				continue
			}
			now := time.Now()
			if now.Sub(lastIndex[e.Section]) >= b.throttle {
				lastIndex[e.Section] = now
				send(Event{Type: TypeIndexUpdated, Section: e.Section, Data: map[string]string{"section": e.Section}})
			}

		case resp := <-b.counts:
			resp <- len(clients)
		}
	}
}

// kindOf maps an article event type back to its change kind.
func kindOf(eventType string) string {
	for kind, t := range articleTypes {
		if t == eventType {
			return kind
		}
	}
	return ""
}

// Close stops the loop and closes every client channel. It is safe to call
// more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stop)
	}
	<-b.done
}

// Subscribe registers a client following section; "" follows all sections.
func (b *Broker) Subscribe(section string) *Client {
	ch := make(chan []byte, b.buffer)
	c := &Client{C: ch, ch: ch, section: section}
	if b.closed.Load() {
		close(ch)
		return c
	}
	select {
	case b.join <- c:
	case <-b.done:
		close(ch)
	}
	return c
}

// Unsubscribe removes c and closes its channel.
func (b *Broker) Unsubscribe(c *Client) {
	if b.closed.Load() {
		return
	}
	select {
	case b.leave <- c:
	case <-b.done:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.counts <- resp:
	case <-b.done:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.done:
		return 0
	}
}

// Dropped reports how many messages were discarded for lagging clients.
func (b *Broker) Dropped() int64 {
	return b.dropped.Load()
}

// Publish queues an event for delivery.
func (b *Broker) Publish(e Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.events <- e:
	case <-b.done:
	}
}

// PublishArticleEvent publishes a change of kind "created", "updated" or
// "deleted". Other kinds are ignored. Each accepted change may be followed
// by a throttled index.updated for its section.
func (b *Broker) PublishArticleEvent(kind, section, path string) {
	t, ok := articleTypes[kind]
	if !ok {
		return
	}
	b.Publish(Event{
		Type:    t,
		Section: section,
		Data:    map[string]string{"section": section, "path": path},
	})
}

// ServeHTTP is the SSE endpoint (GET /api/events[?section=name]).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	c := b.Subscribe(r.URL.Query().Get("section"))
	defer b.Unsubscribe(c)

	var ping <-chan time.Time
	if b.heartbeat > 0 {
		t := time.NewTicker(b.heartbeat)
		defer t.Stop()
		ping = t.C
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-c.C:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
