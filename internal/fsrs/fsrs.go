// Package fsrs implements a simplified FSRS-4.5 spaced-repetition
// scheduler tuned for memorization review.
//
// The scheduler is pure: every transition takes the review instant as an
// argument and returns a new card state, so callers control the clock and
// tests are deterministic.
package fsrs

import (
	"math"
	"sort"
	"time"
)

// Rating is the learner's self-assessment of one review.
type Rating int

const (
	Again Rating = 1 // complete forget, reset card
	Hard  Rating = 2 // difficult recall, short interval
	Good  Rating = 3 // correct recall, normal interval
	Easy  Rating = 4 // perfect recall, longer interval
)

// ValidRating reports whether r is one of the four review grades.
func ValidRating(r Rating) bool {
	return r >= Again && r <= Easy
}

// State is the card's position in the learning lifecycle.
type State string

const (
	StateNew        State = "new"
	StateLearning   State = "learning"
	StateReview     State = "review"
	StateRelearning State = "relearning"
)

// Card is the scheduler state attached to one flashcard.
type Card struct {
	State       State     `json:"state"`
	Stability   float64   `json:"stability"`
	Difficulty  float64   `json:"difficulty"`
	Reps        int       `json:"reps"`
	Lapses      int       `json:"lapses"`
	Due         time.Time `json:"due"`
	LastReview  time.Time `json:"last_review,omitzero"`
	Interval    float64   `json:"interval"`
	ElapsedDays float64   `json:"elapsed_days"`
}

// Params are the scheduler model parameters.
type Params struct {
	// Weights are the FSRS-4.5 model weights.
	Weights []float64
	// LearningSteps are the in-day delays for new cards, in minutes.
	LearningSteps []float64
	// RelearningSteps are the in-day delays for lapsed cards, in minutes.
	RelearningSteps []float64
	// MaximumInterval caps the review interval, in days.
	MaximumInterval float64
	// RequestRetention is the target recall probability at review time.
	RequestRetention float64
}

// DefaultParams returns the parameter set tuned for Quran memorization.
func DefaultParams() Params {
	return Params{
		Weights: []float64{
			0.4, 0.6, 2.4, 5.8, 4.93, 0.94, 0.86, 0.01, 1.49, 0.14,
			0.94, 2.18, 0.05, 0.34, 1.26, 0.29, 2.61,
		},
		LearningSteps:    []float64{1, 10},
		RelearningSteps:  []float64{10},
		MaximumInterval:  365,
		RequestRetention: 0.9,
	}
}

// Scheduler applies review transitions with a fixed parameter set.
type Scheduler struct {
	params Params
}

func NewScheduler(params Params) *Scheduler {
	if len(params.Weights) == 0 {
		params = DefaultParams()
	}
	return &Scheduler{params: params}
}

// NewCard returns a fresh card due immediately with medium difficulty.
func NewCard(now time.Time) Card {
	return Card{
		State:      StateNew,
		Stability:  0,
		Difficulty: 5,
		Due:        now,
	}
}

// Rate applies one review at the given instant and returns the updated card.
// The input card is not modified.
func (s *Scheduler) Rate(card Card, rating Rating, now time.Time) Card {
	next := card
	next.Reps++
	next.ElapsedDays = 0
	if !card.LastReview.IsZero() {
		next.ElapsedDays = math.Max(0, now.Sub(card.LastReview).Hours()/24)
	}
	next.LastReview = now

	switch card.State {
	case StateNew:
		return s.rateNew(next, rating, now)
	case StateLearning, StateRelearning:
		return s.rateLearning(next, rating, now)
	default:
		return s.rateReview(next, rating, now)
	}
}

func (s *Scheduler) rateNew(card Card, rating Rating, now time.Time) Card {
	if rating == Again {
		card.State = StateLearning
		card.Interval = s.params.LearningSteps[0]
		card.Due = addMinutes(now, s.params.LearningSteps[0])
		return card
	}

	if rating == Easy && len(s.params.LearningSteps) == 1 {
		// Graduate immediately.
		card.State = StateReview
		card.Stability = s.initialStability(card.Difficulty)
		card.Interval = s.stabilityToInterval(card.Stability)
		card.Due = addDays(now, card.Interval)
		return card
	}

	stepIndex := 0
	if rating == Easy {
		stepIndex = len(s.params.LearningSteps) - 1
	}
	card.State = StateLearning
	card.Interval = s.params.LearningSteps[stepIndex]
	card.Due = addMinutes(now, card.Interval)
	return card
}

func (s *Scheduler) rateLearning(card Card, rating Rating, now time.Time) Card {
	if rating == Again {
		// Back to the first step.
		step := s.params.LearningSteps[0]
		if card.State == StateRelearning {
			step = s.params.RelearningSteps[0]
			card.Lapses++
		}
		card.Interval = step
		card.Due = addMinutes(now, step)
		return card
	}

	// Graduate to review.
	card.Difficulty = s.nextDifficulty(card.Difficulty, rating)
	card.Stability = s.initialStability(card.Difficulty)
	card.State = StateReview
	card.Interval = s.stabilityToInterval(card.Stability)
	card.Due = addDays(now, card.Interval)
	return card
}

func (s *Scheduler) rateReview(card Card, rating Rating, now time.Time) Card {
	if rating == Again {
		card.State = StateRelearning
		card.Lapses++
		card.Interval = s.params.RelearningSteps[0]
		card.Due = addMinutes(now, card.Interval)
		return card
	}

	oldStability := card.Stability
	card.Difficulty = s.nextDifficulty(card.Difficulty, rating)
	card.Stability = s.nextStability(oldStability, card.Difficulty, rating, card.ElapsedDays)
	card.State = StateReview
	card.Interval = s.stabilityToInterval(card.Stability)
	card.Due = addDays(now, card.Interval)
	return card
}

// initialStability seeds the memory stability when a card graduates.
func (s *Scheduler) initialStability(difficulty float64) float64 {
	w := s.params.Weights
	return w[0] + w[1]*(11-difficulty)
}

// nextDifficulty shifts difficulty by the rating delta, clamped to [1, 10].
func (s *Scheduler) nextDifficulty(difficulty float64, rating Rating) float64 {
	w := s.params.Weights
	delta := w[3] - float64(rating-3)*w[4]
	return math.Max(1, math.Min(10, difficulty-delta))
}

// nextStability grows stability after a successful review. The growth term
// shrinks as retention at review time approaches 1, so early reviews barely
// move the schedule while overdue ones extend it sharply.
func (s *Scheduler) nextStability(stability, difficulty float64, rating Rating, elapsedDays float64) float64 {
	w := s.params.Weights
	retention := Retention(elapsedDays, stability)

	next := stability * (1 +
		math.Exp(w[5])*
			(11-difficulty)*
			math.Pow(stability, w[6])*
			(math.Exp((1-retention)*w[7])-1)*
			w[8])

	switch rating {
	case Hard:
		next *= 0.8
	case Easy:
		next *= 1.3
	}
	return math.Max(0.1, next)
}

// Retention is the modeled recall probability after elapsedDays against a
// memory of the given stability.
func Retention(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+elapsedDays/(9*stability), -1)
}

// stabilityToInterval converts stability into a due interval in whole days,
// clamped to [1, MaximumInterval].
func (s *Scheduler) stabilityToInterval(stability float64) float64 {
	interval := math.Round(stability * math.Log(s.params.RequestRetention) / math.Log(0.9))
	return math.Max(1, math.Min(s.params.MaximumInterval, interval))
}

func addMinutes(t time.Time, minutes float64) time.Time {
	return t.Add(time.Duration(minutes * float64(time.Minute)))
}

func addDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(days * 24 * float64(time.Hour)))
}

// DueCards selects the cards due at the given instant, sorted by due time
// ascending. The input slice is not modified.
func DueCards(cards []Card, now time.Time) []Card {
	var due []Card
	for _, c := range cards {
		if !c.Due.After(now) {
			due = append(due, c)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].Due.Before(due[j].Due) })
	return due
}

// Stats summarizes a card collection at one instant.
type Stats struct {
	Total    int `json:"total"`
	New      int `json:"new"`
	Learning int `json:"learning"`
	Review   int `json:"review"`
	Due      int `json:"due"`
}

// CollectStats counts the cards by state; learning and relearning share a
// bucket.
func CollectStats(cards []Card, now time.Time) Stats {
	st := Stats{Total: len(cards)}
	for _, c := range cards {
		switch c.State {
		case StateNew:
			st.New++
		case StateLearning, StateRelearning:
			st.Learning++
		case StateReview:
			st.Review++
		}
		if !c.Due.After(now) {
			st.Due++
		}
	}
	return st
}
