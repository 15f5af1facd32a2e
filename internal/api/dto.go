package api

import (
	"encoding/json"

	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/store"
	"github.com/quranhifz/hifzd/internal/studyservice"
)

// CreateFlashcardRequest is the request body for creating a flashcard.
type CreateFlashcardRequest struct {
	Type  string `json:"type" example:"mistake" validate:"required"`
	Surah int    `json:"surah" example:"2"`
	Ayah  int    `json:"ayah" example:"255"`
	Page  int    `json:"page" example:"42"`
	Front string `json:"front" example:"What follows 2:255?" validate:"required"`
	Back  string `json:"back" example:"2:256"`

	Metadata models.CardMetadata `json:"metadata"`
}

// UpdateFlashcardRequest is the request body for updating a flashcard's
// content fields. Review state is never writable through the API.
type UpdateFlashcardRequest = CreateFlashcardRequest

// ReviewRequest grades a due flashcard.
type ReviewRequest struct {
	Rating int `json:"rating" example:"3" validate:"required"`
}

// AnnotationRequest is the request body for creating or updating an
// annotation. Data carries the type-specific payload verbatim.
type AnnotationRequest struct {
	Type       string          `json:"type" example:"highlight" validate:"required"`
	PageNumber int             `json:"page_number" example:"42"`
	VerseKey   string          `json:"verse_key" example:"2:255"`
	Data       json.RawMessage `json:"data"`
	Tags       []string        `json:"tags" example:"tajweed,review"`
}

// ImportRequest wraps a previously exported collection.
type ImportRequest struct {
	Data    json.RawMessage `json:"data" validate:"required"`
	Replace bool            `json:"replace" example:"false"`
}

// PageDetail is the full page response type (aliased from the domain layer).
type PageDetail = studyservice.PageDetail

// PageCheck is the boundary verification response (aliased from the domain layer).
type PageCheck = studyservice.PageCheck

// VerseHit is a single search hit (aliased from the store layer).
type VerseHit = store.VerseHit

// SearchResponse wraps verse search results.
type SearchResponse struct {
	Results []VerseHit `json:"results" validate:"required"`
}

// FlashcardListResponse wraps flashcard listings.
type FlashcardListResponse struct {
	Flashcards []models.Flashcard `json:"flashcards" validate:"required"`
	Total      int                `json:"total" example:"12" validate:"required"`
}

// AnnotationListResponse wraps annotation listings.
type AnnotationListResponse struct {
	Annotations []models.Annotation `json:"annotations" validate:"required"`
	Total       int                 `json:"total" example:"7" validate:"required"`
}

// HistoryResponse describes the undo and redo stacks.
type HistoryResponse = studyservice.HistoryInfo

// UndoResponse reports the outcome of an undo or redo.
type UndoResponse struct {
	Done        bool   `json:"done" example:"true"`
	Description string `json:"description,omitempty" example:"delete mistake card"`
}

// ImportResponse reports how many records an import loaded.
type ImportResponse struct {
	Imported int `json:"imported" example:"24" validate:"required"`
}
