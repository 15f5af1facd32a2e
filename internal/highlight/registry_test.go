package highlight

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/testutil"
)

func writeTiming(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryLoadsTimingFiles(t *testing.T) {
	dir := t.TempDir()
	writeTiming(t, dir, "1_1.json",
		`[{"position":1,"start_time":0,"end_time":0.5},{"position":2,"start_time":0.5,"end_time":1.2}]`)
	writeTiming(t, dir, "notes.txt", "ignored")
	writeTiming(t, dir, "broken.json", "{not json")

	r, err := NewRegistry(dir, testutil.Logger())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if !r.HasRecording("1:1") {
		t.Fatal("expected recording for 1:1")
	}
	if r.HasRecording("2:255") {
		t.Fatal("unexpected recording for 2:255")
	}

	verse := &models.Verse{VerseKey: "1:1", Words: []models.Word{{Position: 1, Text: "بسم"}}}
	ts := r.TimestampsFor(verse, HeuristicEstimator{})
	if len(ts) != 2 {
		t.Fatalf("recorded timestamps = %d, want 2", len(ts))
	}
	if ts[1].EndTime != 1.2 {
		t.Errorf("second end = %v, want 1.2", ts[1].EndTime)
	}
	if ts[0].WordID != "1:1:1" {
		t.Errorf("word id = %q, want 1:1:1", ts[0].WordID)
	}
}

func TestRegistryFallsBackToHeuristic(t *testing.T) {
	r, err := NewRegistry(t.TempDir(), testutil.Logger())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	verse := &models.Verse{
		VerseKey: "2:255",
		Words:    []models.Word{{Position: 1, Text: "الله"}, {Position: 2, Text: "لا"}},
	}
	ts := r.TimestampsFor(verse, HeuristicEstimator{})
	if len(ts) != 2 {
		t.Fatalf("heuristic timestamps = %d, want 2", len(ts))
	}
	if ts[0].StartTime != 0 || ts[1].StartTime != ts[0].EndTime {
		t.Errorf("heuristic timestamps not contiguous: %+v", ts)
	}
}

func TestWatchPicksUpNewTimingFiles(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRegistry(dir, testutil.Logger())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchDone := make(chan error, 1)
	go func() { watchDone <- Watch(ctx, r, testutil.Logger()) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(50 * time.Millisecond)

	writeTiming(t, dir, "3_7.json", `[{"position":1,"start_time":0,"end_time":0.4}]`)
	waitFor(t, func() bool { return r.HasRecording("3:7") })

	if err := os.Remove(filepath.Join(dir, "3_7.json")); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return !r.HasRecording("3:7") })

	cancel()
	if err := <-watchDone; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}

func TestVerseKeyFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"2_255.json", "2:255", false},
		{"1_1.json", "1:1", false},
		{"readme.json", "", true},
		{"a_b.json", "", true},
	}
	for _, tt := range tests {
		got, err := verseKeyFromFilename(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("verseKeyFromFilename(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("verseKeyFromFilename(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("verseKeyFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
