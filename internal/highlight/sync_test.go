package highlight

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/testutil"
)

// fakeClock is a settable playback position.
type fakeClock struct {
	mu  sync.Mutex
	pos float64
}

func (c *fakeClock) PlaybackPosition() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *fakeClock) seek(pos float64) {
	c.mu.Lock()
	c.pos = pos
	c.mu.Unlock()
}

// recordingSurface captures highlight events in order.
type recordingSurface struct {
	mu     sync.Mutex
	words  []string
	clears int
}

func (s *recordingSurface) HighlightWord(word WordTimestamp) {
	s.mu.Lock()
	s.words = append(s.words, word.WordID)
	s.mu.Unlock()
}

func (s *recordingSurface) ClearHighlight() {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
}

func (s *recordingSurface) snapshot() ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.words...), s.clears
}

func threeWordTimestamps() []WordTimestamp {
	return []WordTimestamp{
		{WordID: "1:1:1", StartTime: 0, EndTime: 0.3, VerseKey: "1:1", Position: 1},
		{WordID: "1:1:2", StartTime: 0.3, EndTime: 0.6, VerseKey: "1:1", Position: 2},
		{WordID: "1:1:3", StartTime: 0.6, EndTime: 1.0, VerseKey: "1:1", Position: 3},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestFindWordAtTime(t *testing.T) {
	timestamps := threeWordTimestamps()

	tests := []struct {
		name     string
		position float64
		wantID   string
		wantHit  bool
	}{
		{"start boundary inclusive", 0, "1:1:1", true},
		{"inside first word", 0.15, "1:1:1", true},
		{"shared boundary goes to a word", 0.3, "", true},
		{"inside last word", 0.8, "1:1:3", true},
		{"end boundary inclusive", 1.0, "1:1:3", true},
		{"past the end", 1.5, "", false},
		{"before the start", -0.1, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, ok := findWordAtTime(timestamps, tt.position)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if tt.wantID != "" && word.WordID != tt.wantID {
				t.Errorf("word = %q, want %q", word.WordID, tt.wantID)
			}
		})
	}
}

func TestSynchronizerFollowsPlayback(t *testing.T) {
	clock := &fakeClock{}
	surface := &recordingSurface{}
	s := NewSynchronizer(surface, testutil.Logger(), WithTick(time.Millisecond))
	s.SetWordTimestamps(threeWordTimestamps())

	s.Start(clock)
	defer s.Stop()

	waitFor(t, func() bool { return s.CurrentWordID() == "1:1:1" })

	clock.seek(0.45)
	waitFor(t, func() bool { return s.CurrentWordID() == "1:1:2" })

	clock.seek(0.8)
	waitFor(t, func() bool { return s.CurrentWordID() == "1:1:3" })

	// Past the last word the highlight clears.
	clock.seek(2.0)
	waitFor(t, func() bool { return s.CurrentWordID() == "" })

	words, clears := surface.snapshot()
	want := []string{"1:1:1", "1:1:2", "1:1:3"}
	if len(words) != len(want) {
		t.Fatalf("highlight events = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("highlight events = %v, want %v", words, want)
		}
	}
	if clears == 0 {
		t.Error("expected at least one clear after playback passed the end")
	}
}

func TestSynchronizerStartReplacesLoop(t *testing.T) {
	clock := &fakeClock{}
	surface := &recordingSurface{}
	s := NewSynchronizer(surface, testutil.Logger(), WithTick(time.Millisecond))
	s.SetWordTimestamps(threeWordTimestamps())

	s.Start(clock)
	s.Start(clock) // replaces, never doubles
	if !s.Running() {
		t.Fatal("synchronizer should be running")
	}

	s.Stop()
	if s.Running() {
		t.Fatal("synchronizer should be stopped")
	}
	s.Stop() // idempotent
}

func TestTransformAppliedToEmittedBounds(t *testing.T) {
	clock := &fakeClock{}

	var mu sync.Mutex
	var got models.BoundingBox
	surface := &funcSurface{
		highlight: func(w WordTimestamp) {
			mu.Lock()
			got = w.Bounds
			mu.Unlock()
		},
	}

	s := NewSynchronizer(surface, testutil.Logger(), WithTick(time.Millisecond))
	ts := threeWordTimestamps()
	ts[0].Bounds = models.BoundingBox{X: 10, Y: 20, Width: 30, Height: 40}
	s.SetWordTimestamps(ts)
	s.SetTransform(Transform{Zoom: 2, PanX: 5, PanY: 0})

	s.Start(clock)
	defer s.Stop()
	waitFor(t, func() bool { return s.CurrentWordID() == "1:1:1" })

	mu.Lock()
	defer mu.Unlock()
	if got.X != 30 || got.Y != 40 || got.Width != 60 || got.Height != 80 {
		t.Errorf("transformed bounds = %+v, want {30 40 60 80}", got)
	}
}

type funcSurface struct {
	highlight func(WordTimestamp)
}

func (f *funcSurface) HighlightWord(w WordTimestamp) {
	if f.highlight != nil {
		f.highlight(w)
	}
}

func (f *funcSurface) ClearHighlight() {}

func TestBuildTimestampsHeuristic(t *testing.T) {
	verse := &models.Verse{
		VerseKey: "1:1",
		Words: []models.Word{
			{Position: 1, Text: "في"},       // 2 runes, short
			{Position: 2, Text: "الله"},     // 4 runes, base
			{Position: 3, Text: "الرحمن"},   // 6 runes
			{Position: 4, Text: "العالمين"}, // 8 runes, long
		},
	}

	timestamps := BuildTimestamps(verse, HeuristicEstimator{})
	if len(timestamps) != 4 {
		t.Fatalf("timestamps = %d, want 4", len(timestamps))
	}

	wantDurations := []float64{0.21, 0.3, 0.36, 0.45}
	cumulative := 0.0
	for i, ts := range timestamps {
		if math.Abs(ts.StartTime-cumulative) > 1e-9 {
			t.Errorf("word %d start = %v, want %v", i+1, ts.StartTime, cumulative)
		}
		got := ts.EndTime - ts.StartTime
		if math.Abs(got-wantDurations[i]) > 1e-9 {
			t.Errorf("word %d duration = %v, want %v", i+1, got, wantDurations[i])
		}
		cumulative += wantDurations[i]
	}

	if timestamps[0].WordID != "1:1:1" {
		t.Errorf("word id = %q, want 1:1:1", timestamps[0].WordID)
	}
}

func TestBuildTimestampsEmptyVerse(t *testing.T) {
	if got := BuildTimestamps(nil, HeuristicEstimator{}); got != nil {
		t.Errorf("nil verse timestamps = %v, want nil", got)
	}
	if got := BuildTimestamps(&models.Verse{VerseKey: "1:1"}, HeuristicEstimator{}); got != nil {
		t.Errorf("empty verse timestamps = %v, want nil", got)
	}
}
