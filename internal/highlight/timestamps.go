// Package highlight synchronizes word-level highlights with audio playback.
//
// Timestamps come either from real per-verse timing files (see Registry) or
// from a text-length heuristic when no timing data exists for a reciter.
package highlight

import (
	"fmt"
	"unicode/utf8"

	"github.com/quranhifz/hifzd/internal/layout"
	"github.com/quranhifz/hifzd/internal/models"
)

// WordTimestamp is one word's audio window plus its on-page box.
type WordTimestamp struct {
	WordID    string             `json:"word_id"`
	StartTime float64            `json:"start_time"`
	EndTime   float64            `json:"end_time"`
	Bounds    models.BoundingBox `json:"bounds"`
	VerseKey  string             `json:"verse_key"`
	Position  int                `json:"position"`
}

// TimestampWordID is the id format shared between timestamps and the
// spatial mapper.
func TimestampWordID(verseKey string, position int) string {
	return fmt.Sprintf("%s:%d", verseKey, position)
}

// DurationEstimator predicts how long one word takes to recite, in seconds.
type DurationEstimator interface {
	WordDuration(word models.Word) float64
}

// HeuristicEstimator estimates duration from text length. It is the
// fallback when no recorded timing data covers a verse.
type HeuristicEstimator struct{}

const baseWordDuration = 0.3

func (HeuristicEstimator) WordDuration(word models.Word) float64 {
	switch n := utf8.RuneCountInString(word.Text); {
	case n <= 2:
		return baseWordDuration * 0.7
	case n <= 4:
		return baseWordDuration
	case n <= 6:
		return baseWordDuration * 1.2
	default:
		return baseWordDuration * 1.5
	}
}

// BuildTimestamps lays the verse's words end to end on the audio timeline
// using the estimator. Boxes are zero until merged with mapper positions.
func BuildTimestamps(verse *models.Verse, est DurationEstimator) []WordTimestamp {
	if verse == nil || len(verse.Words) == 0 {
		return nil
	}
	timestamps := make([]WordTimestamp, 0, len(verse.Words))
	cumulative := 0.0
	for _, word := range verse.Words {
		duration := est.WordDuration(word)
		timestamps = append(timestamps, WordTimestamp{
			WordID:    TimestampWordID(verse.VerseKey, word.Position),
			StartTime: cumulative,
			EndTime:   cumulative + duration,
			VerseKey:  verse.VerseKey,
			Position:  word.Position,
		})
		cumulative += duration
	}
	return timestamps
}

// MergePositions copies mapper boxes onto timestamps by word id. Timestamps
// without a matching position keep their zero box.
func MergePositions(timestamps []WordTimestamp, positions []layout.WordPosition) []WordTimestamp {
	byID := make(map[string]models.BoundingBox, len(positions))
	for _, p := range positions {
		byID[TimestampWordID(p.VerseKey, p.Position)] = p.Bounds
	}
	merged := make([]WordTimestamp, len(timestamps))
	for i, ts := range timestamps {
		if bounds, ok := byID[ts.WordID]; ok {
			ts.Bounds = bounds
		}
		merged[i] = ts
	}
	return merged
}
