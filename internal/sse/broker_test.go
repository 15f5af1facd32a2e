package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quranhifz/hifzd/internal/highlight"
	"github.com/quranhifz/hifzd/internal/models"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "edition.detected", Data: map[string]string{"edition": "madani-15"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: edition.detected") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"edition":"madani-15"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestHighlightSurfaceEvents(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.HighlightWord(highlight.WordTimestamp{
		WordID:   "2:255:1",
		VerseKey: "2:255",
		Position: 1,
		Bounds:   models.BoundingBox{X: 60, Y: 80, Width: 50, Height: 35},
	})
	b.ClearHighlight()

	var got []string
	for len(got) < 2 {
		select {
		case msg := <-ch:
			got = append(got, string(msg))
		case <-time.After(time.Second):
			t.Fatalf("timeout, collected %d events", len(got))
		}
	}

	if !strings.Contains(got[0], "event: highlight.word") {
		t.Errorf("first event = %q", got[0])
	}
	if !strings.Contains(got[0], `"word_id":"2:255:1"`) {
		t.Errorf("highlight payload = %q", got[0])
	}
	if !strings.Contains(got[1], "event: highlight.clear") {
		t.Errorf("second event = %q", got[1])
	}
}

func TestPageChangeThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Rapid flipping: only the first page change within the window goes out.
	b.PublishPageChange(10)
	b.PublishPageChange(11)
	b.PublishPageChange(12)

	time.Sleep(50 * time.Millisecond)
	count := 0
loop:
	for {
		select {
		case msg := <-ch:
			if strings.Contains(string(msg), "page.changed") {
				count++
			}
		default:
			break loop
		}
	}

	if count != 1 {
		t.Errorf("page.changed events = %d, want 1", count)
	}
}

func TestCloseIdempotentAndSafe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()

	b.Close()
	b.Close()

	// Channel is closed for the client.
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for close")
	}

	// Post-close calls are no-ops.
	b.Publish(Event{Type: "x"})
	b.PublishPageChange(1)
	b.ClearHighlight()
	if b.ClientCount() != 0 {
		t.Fatal("expected 0 clients after close")
	}
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(rec, req)
		close(done)
	}()

	// Wait for the subscription to land, then publish.
	deadline := time.Now().Add(time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	b.Publish(Event{Type: "ping", Data: map[string]string{}})

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(rec.Body.String(), "event: ping") {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	cancel()
	<-done

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "event: ping") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
