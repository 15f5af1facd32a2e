// Package sse implements a Server-Sent Events broker for real-time
// highlight and page updates.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/quranhifz/hifzd/internal/highlight"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type highlightReq struct {
	word  highlight.WordTimestamp
	clear bool
}

// Broker manages SSE client connections and broadcasts events.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable
// state (clients + the page throttle timestamp). Public methods communicate
// with this loop through channels, so no mutexes are required.
type Broker struct {
	pageMin time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	highlightCh   chan highlightReq
	pageCh        chan int
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker. pageThrottle bounds how often
// page.changed events go out during fast page flipping.
func NewBroker(pageThrottle time.Duration) *Broker {
	if pageThrottle <= 0 {
		pageThrottle = 100 * time.Millisecond
	}

	b := &Broker{
		pageMin:       pageThrottle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		highlightCh:   make(chan highlightReq, 256),
		pageCh:        make(chan int, 64),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var lastPage time.Time

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		msg := fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload)
		raw := []byte(msg)

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.highlightCh:
			if req.clear {
				broadcast(Event{Type: "highlight.clear", Data: map[string]string{}})
			} else {
				broadcast(Event{Type: "highlight.word", Data: req.word})
			}

		case page := <-b.pageCh:
			// Rapid page flips within the throttle window are dropped;
			// clients refetch the page map on settle anyway.
			now := time.Now()
			if now.Sub(lastPage) >= b.pageMin {
				lastPage = now
				broadcast(Event{Type: "page.changed", Data: map[string]int{"page": page}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishPageChange publishes a throttled page.changed event.
func (b *Broker) PublishPageChange(page int) {
	if b.closed.Load() {
		return
	}
	select {
	case b.pageCh <- page:
	case <-b.stopped:
	}
}

// HighlightWord broadcasts the currently recited word. Together with
// ClearHighlight this lets the broker act as the synchronizer's surface,
// streaming highlights to every connected client.
func (b *Broker) HighlightWord(word highlight.WordTimestamp) {
	if b.closed.Load() {
		return
	}
	select {
	case b.highlightCh <- highlightReq{word: word}:
	case <-b.stopped:
	}
}

// ClearHighlight broadcasts the end of the current highlight.
func (b *Broker) ClearHighlight() {
	if b.closed.Load() {
		return
	}
	select {
	case b.highlightCh <- highlightReq{clear: true}:
	case <-b.stopped:
	}
}

// The broker doubles as a highlight surface.
var _ highlight.Surface = (*Broker)(nil)

// ServeHTTP is the SSE endpoint handler (GET /api/events).
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

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
