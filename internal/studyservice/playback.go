package studyservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/highlight"
	"github.com/quranhifz/hifzd/internal/layout"
)

// playbackClock is an AudioClock fed by client position reports.
type playbackClock struct {
	mu  sync.Mutex
	pos float64
}

func (c *playbackClock) PlaybackPosition() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *playbackClock) set(pos float64) {
	c.mu.Lock()
	c.pos = pos
	c.mu.Unlock()
}

// PlaybackStatus reports the highlight loop state.
type PlaybackStatus struct {
	Running     bool    `json:"running"`
	Position    float64 `json:"position"`
	CurrentWord string  `json:"current_word,omitempty"`
}

// StartPlayback begins highlight synchronization for one verse. Recorded
// timings are used when the registry has them, the length heuristic
// otherwise; word bounds come from the verse's page map so highlight
// events carry real geometry. A running loop is replaced.
func (s *Service) StartPlayback(ctx context.Context, verseKey string) error {
	if s.sync == nil {
		return fmt.Errorf("studyservice: no highlight surface: %w", apperr.ErrUnavailable)
	}
	verse, err := s.GetVerse(ctx, verseKey)
	if err != nil {
		return err
	}

	var timestamps []highlight.WordTimestamp
	if s.timings != nil {
		timestamps = s.timings.TimestampsFor(verse, s.estimator)
	} else {
		timestamps = highlight.BuildTimestamps(verse, s.estimator)
	}

	if verse.PageNumber >= 1 {
		if page, err := s.rebuilder.RebuildPage(ctx, verse.PageNumber); err == nil {
			mapper := layout.NewMapper(s.grid)
			mapper.BuildPageMap(page)
			timestamps = highlight.MergePositions(timestamps, mapper.AyahWords(verse.VerseKey))
		}
	}

	s.clock.set(0)
	s.sync.SetWordTimestamps(timestamps)
	s.sync.Start(s.clock)
	return nil
}

// UpdatePlayback reports the current audio position in seconds.
func (s *Service) UpdatePlayback(_ context.Context, position float64) error {
	if s.sync == nil {
		return fmt.Errorf("studyservice: no highlight surface: %w", apperr.ErrUnavailable)
	}
	s.clock.set(position)
	return nil
}

// StopPlayback halts the highlight loop and clears the highlight.
func (s *Service) StopPlayback(_ context.Context) {
	if s.sync != nil {
		s.sync.Stop()
	}
}

// SetViewTransform applies the client's zoom and pan to emitted highlights.
func (s *Service) SetViewTransform(_ context.Context, t highlight.Transform) error {
	if s.sync == nil {
		return fmt.Errorf("studyservice: no highlight surface: %w", apperr.ErrUnavailable)
	}
	s.sync.SetTransform(t)
	return nil
}

// Playback reports whether the highlight loop is running and where.
func (s *Service) Playback(_ context.Context) PlaybackStatus {
	if s.sync == nil {
		return PlaybackStatus{}
	}
	return PlaybackStatus{
		Running:     s.sync.Running(),
		Position:    s.clock.PlaybackPosition(),
		CurrentWord: s.sync.CurrentWordID(),
	}
}
