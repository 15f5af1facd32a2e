package fsrs

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewCard(t *testing.T) {
	card := NewCard(t0)
	if card.State != StateNew {
		t.Errorf("state = %q, want %q", card.State, StateNew)
	}
	if card.Difficulty != 5 {
		t.Errorf("difficulty = %v, want 5", card.Difficulty)
	}
	if card.Stability != 0 {
		t.Errorf("stability = %v, want 0", card.Stability)
	}
	if !card.Due.Equal(t0) {
		t.Errorf("due = %v, want %v", card.Due, t0)
	}
}

func TestRateNewCard(t *testing.T) {
	s := NewScheduler(DefaultParams())

	tests := []struct {
		name      string
		rating    Rating
		wantState State
		wantDue   time.Time
	}{
		{"again stays on first step", Again, StateLearning, t0.Add(time.Minute)},
		{"hard takes first step", Hard, StateLearning, t0.Add(time.Minute)},
		{"good takes first step", Good, StateLearning, t0.Add(time.Minute)},
		{"easy jumps to last step", Easy, StateLearning, t0.Add(10 * time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Rate(NewCard(t0), tt.rating, t0)
			if got.State != tt.wantState {
				t.Errorf("state = %q, want %q", got.State, tt.wantState)
			}
			if !got.Due.Equal(tt.wantDue) {
				t.Errorf("due = %v, want %v", got.Due, tt.wantDue)
			}
			if got.Reps != 1 {
				t.Errorf("reps = %d, want 1", got.Reps)
			}
		})
	}
}

func TestGraduation(t *testing.T) {
	s := NewScheduler(DefaultParams())

	card := s.Rate(NewCard(t0), Good, t0)
	if card.State != StateLearning {
		t.Fatalf("state after first Good = %q", card.State)
	}

	later := t0.Add(time.Minute)
	card = s.Rate(card, Good, later)
	if card.State != StateReview {
		t.Fatalf("state after graduating = %q, want %q", card.State, StateReview)
	}
	if card.Stability <= 0 {
		t.Errorf("graduated stability = %v, want > 0", card.Stability)
	}
	if card.Interval < 1 {
		t.Errorf("graduated interval = %v, want >= 1 day", card.Interval)
	}
	if !card.Due.After(later.Add(23 * time.Hour)) {
		t.Errorf("graduated due = %v, want at least a day out", card.Due)
	}
}

func TestReviewLapse(t *testing.T) {
	s := NewScheduler(DefaultParams())

	card := Card{
		State:      StateReview,
		Stability:  10,
		Difficulty: 5,
		Reps:       4,
		LastReview: t0.Add(-10 * 24 * time.Hour),
		Due:        t0,
	}

	got := s.Rate(card, Again, t0)
	if got.State != StateRelearning {
		t.Errorf("state = %q, want %q", got.State, StateRelearning)
	}
	if got.Lapses != 1 {
		t.Errorf("lapses = %d, want 1", got.Lapses)
	}
	if want := t0.Add(10 * time.Minute); !got.Due.Equal(want) {
		t.Errorf("due = %v, want %v", got.Due, want)
	}

	// Rating Good from relearning graduates back to review.
	recovered := s.Rate(got, Good, got.Due)
	if recovered.State != StateReview {
		t.Errorf("recovered state = %q, want %q", recovered.State, StateReview)
	}
}

func TestReviewGrowsStability(t *testing.T) {
	s := NewScheduler(DefaultParams())

	card := Card{
		State:      StateReview,
		Stability:  6,
		Difficulty: 5,
		LastReview: t0.Add(-6 * 24 * time.Hour),
		Due:        t0,
	}

	good := s.Rate(card, Good, t0)
	if good.Stability <= card.Stability {
		t.Errorf("Good stability = %v, want > %v", good.Stability, card.Stability)
	}
	if !good.Due.After(t0.Add(6 * 24 * time.Hour)) {
		t.Errorf("Good due = %v, want later than the previous interval", good.Due)
	}

	hard := s.Rate(card, Hard, t0)
	easy := s.Rate(card, Easy, t0)
	if !(hard.Stability < good.Stability && good.Stability < easy.Stability) {
		t.Errorf("stability ordering hard=%v good=%v easy=%v, want hard < good < easy",
			hard.Stability, good.Stability, easy.Stability)
	}
}

func TestDifficultyClamped(t *testing.T) {
	s := NewScheduler(DefaultParams())

	card := Card{State: StateReview, Stability: 5, Difficulty: 10, LastReview: t0.Add(-24 * time.Hour), Due: t0}
	for i := 0; i < 20; i++ {
		card = s.Rate(card, Hard, t0.Add(time.Duration(i)*24*time.Hour))
		if card.State == StateRelearning {
			t.Fatalf("unexpected lapse on Hard")
		}
		if card.Difficulty < 1 || card.Difficulty > 10 {
			t.Fatalf("difficulty %v escaped [1, 10]", card.Difficulty)
		}
	}
}

func TestIntervalClamped(t *testing.T) {
	s := NewScheduler(DefaultParams())

	card := Card{
		State:      StateReview,
		Stability:  5000,
		Difficulty: 3,
		LastReview: t0.Add(-300 * 24 * time.Hour),
		Due:        t0,
	}
	got := s.Rate(card, Easy, t0)
	if got.Interval != 365 {
		t.Errorf("interval = %v, want clamped to 365", got.Interval)
	}
}

func TestRetention(t *testing.T) {
	// At elapsed == 9*stability the model gives exactly 50%.
	if got := Retention(9, 1); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Retention(9, 1) = %v, want 0.5", got)
	}
	if got := Retention(0, 5); got != 1 {
		t.Errorf("Retention(0, 5) = %v, want 1", got)
	}
	if got := Retention(3, 0); got != 0 {
		t.Errorf("Retention with zero stability = %v, want 0", got)
	}
}

func TestDueCards(t *testing.T) {
	cards := []Card{
		{Due: t0.Add(time.Hour)},
		{Due: t0.Add(-2 * time.Hour)},
		{Due: t0.Add(-time.Hour)},
		{Due: t0},
	}
	due := DueCards(cards, t0)
	if len(due) != 3 {
		t.Fatalf("due count = %d, want 3", len(due))
	}
	for i := 1; i < len(due); i++ {
		if due[i].Due.Before(due[i-1].Due) {
			t.Fatalf("due cards not sorted: %v before %v", due[i].Due, due[i-1].Due)
		}
	}
}

func TestCollectStats(t *testing.T) {
	cards := []Card{
		{State: StateNew, Due: t0},
		{State: StateLearning, Due: t0.Add(time.Hour)},
		{State: StateRelearning, Due: t0.Add(-time.Hour)},
		{State: StateReview, Due: t0.Add(48 * time.Hour)},
		{State: StateReview, Due: t0.Add(-48 * time.Hour)},
	}
	st := CollectStats(cards, t0)
	if st.Total != 5 || st.New != 1 || st.Learning != 2 || st.Review != 2 {
		t.Errorf("stats = %+v", st)
	}
	if st.Due != 3 {
		t.Errorf("due = %d, want 3", st.Due)
	}
}
