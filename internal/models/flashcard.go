package models

import (
	"time"

	"github.com/quranhifz/hifzd/internal/fsrs"
)

// FlashcardType classifies what a memorization card drills.
type FlashcardType string

const (
	CardMistake          FlashcardType = "mistake"
	CardMutashabihat     FlashcardType = "mutashabihat"
	CardTransition       FlashcardType = "transition"
	CardCustomTransition FlashcardType = "custom-transition"
	CardPageNumber       FlashcardType = "page-number"
)

// FlashcardTypes lists every valid card type.
func FlashcardTypes() []FlashcardType {
	return []FlashcardType{
		CardMistake, CardMutashabihat, CardTransition, CardCustomTransition, CardPageNumber,
	}
}

// ValidFlashcardType reports whether t is a known card type.
func ValidFlashcardType(t FlashcardType) bool {
	for _, known := range FlashcardTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// CardMetadata is optional user-defined card decoration.
type CardMetadata struct {
	Color string   `json:"color,omitempty"`
	Notes string   `json:"notes,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// Flashcard is one memorization card with its scheduler state.
type Flashcard struct {
	ID           string        `json:"id"`
	Type         FlashcardType `json:"type"`
	Surah        int           `json:"surah"`
	Ayah         int           `json:"ayah"`
	Page         int           `json:"page"`
	Front        string        `json:"front"`
	Back         string        `json:"back"`
	FSRS         fsrs.Card     `json:"fsrs_state"`
	CreatedAt    time.Time     `json:"created_at"`
	LastReviewed time.Time     `json:"last_reviewed,omitzero"`
	Metadata     CardMetadata  `json:"metadata,omitempty"`
}

// FlashcardStats summarizes a collection at query time.
type FlashcardStats struct {
	Total    int                   `json:"total"`
	ByType   map[FlashcardType]int `json:"by_type"`
	DueToday int                   `json:"due_today"`
}
