package highlight

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/quranhifz/hifzd/internal/models"
)

// defaultTick approximates a 60fps refresh.
const defaultTick = 16 * time.Millisecond

// AudioClock reports the playback position in seconds.
type AudioClock interface {
	PlaybackPosition() float64
}

// Surface receives highlight updates. Implementations must be safe to call
// from the synchronizer goroutine.
type Surface interface {
	HighlightWord(word WordTimestamp)
	ClearHighlight()
}

// Transform is the view zoom/pan applied to word boxes before they reach
// the surface.
type Transform struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
}

// Synchronizer drives a Surface from an AudioClock, highlighting whichever
// word's audio window contains the playback position. One goroutine polls
// the clock; Start replaces any running loop and Stop is idempotent.
type Synchronizer struct {
	surface Surface
	logger  *slog.Logger
	tick    time.Duration

	mu         sync.Mutex
	clock      AudioClock
	timestamps []WordTimestamp
	transform  Transform
	currentID  string
	stop       chan struct{}
	done       chan struct{}
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithTick overrides the poll interval. Tests use a short tick.
func WithTick(d time.Duration) SyncOption {
	return func(s *Synchronizer) {
		if d > 0 {
			s.tick = d
		}
	}
}

func NewSynchronizer(surface Surface, logger *slog.Logger, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		surface:   surface,
		logger:    logger,
		tick:      defaultTick,
		transform: Transform{Zoom: 1},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins polling the clock. A running loop is stopped first, so the
// synchronizer never runs two loops at once.
func (s *Synchronizer) Start(clock AudioClock) {
	s.Stop()

	s.mu.Lock()
	s.clock = clock
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	s.logger.Debug("highlight loop started", slog.Duration("tick", s.tick))
	go s.loop(clock, stop, done)
}

// Stop halts the loop, clears the surface and waits for the goroutine to
// exit. Calling Stop on a stopped synchronizer is a no-op.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.clock = nil
	s.currentID = ""
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	s.surface.ClearHighlight()
	s.logger.Debug("highlight loop stopped")
}

// Running reports whether the poll loop is active.
func (s *Synchronizer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// SetWordTimestamps replaces the active timestamps. The slice is copied and
// sorted by start time so lookups can binary-search.
func (s *Synchronizer) SetWordTimestamps(timestamps []WordTimestamp) {
	sorted := make([]WordTimestamp, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartTime < sorted[j].StartTime })

	s.mu.Lock()
	s.timestamps = sorted
	s.mu.Unlock()
}

// ClearWordTimestamps drops the active timestamps and clears the surface.
func (s *Synchronizer) ClearWordTimestamps() {
	s.mu.Lock()
	s.timestamps = nil
	s.currentID = ""
	s.mu.Unlock()
	s.surface.ClearHighlight()
}

// SetTransform updates the zoom/pan applied to emitted boxes.
func (s *Synchronizer) SetTransform(t Transform) {
	s.mu.Lock()
	s.transform = t
	s.mu.Unlock()
}

// CurrentWordID returns the id of the word highlighted right now, or "".
func (s *Synchronizer) CurrentWordID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

func (s *Synchronizer) loop(clock AudioClock, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.step(clock)
		}
	}
}

// step emits at most one surface update per tick, and only when the
// highlighted word actually changes.
func (s *Synchronizer) step(clock AudioClock) {
	position := clock.PlaybackPosition()

	s.mu.Lock()
	word, found := findWordAtTime(s.timestamps, position)
	transform := s.transform
	changed := false
	cleared := false
	if found && word.WordID != s.currentID {
		s.currentID = word.WordID
		changed = true
	} else if !found && s.currentID != "" {
		s.currentID = ""
		cleared = true
	}
	s.mu.Unlock()

	switch {
	case changed:
		word.Bounds = transform.apply(word.Bounds)
		s.surface.HighlightWord(word)
	case cleared:
		s.surface.ClearHighlight()
	}
}

// findWordAtTime binary-searches the sorted timestamps for the word whose
// inclusive [start, end] window contains the position.
func findWordAtTime(timestamps []WordTimestamp, position float64) (WordTimestamp, bool) {
	left, right := 0, len(timestamps)-1
	for left <= right {
		mid := (left + right) / 2
		word := timestamps[mid]
		switch {
		case position >= word.StartTime && position <= word.EndTime:
			return word, true
		case position < word.StartTime:
			right = mid - 1
		default:
			left = mid + 1
		}
	}
	return WordTimestamp{}, false
}

func (t Transform) apply(b models.BoundingBox) models.BoundingBox {
	zoom := t.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return models.BoundingBox{
		X:      (b.X + t.PanX) * zoom,
		Y:      (b.Y + t.PanY) * zoom,
		Width:  b.Width * zoom,
		Height: b.Height * zoom,
	}
}
