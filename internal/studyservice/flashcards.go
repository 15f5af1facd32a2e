package studyservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/command"
	"github.com/quranhifz/hifzd/internal/fsrs"
	"github.com/quranhifz/hifzd/internal/models"
)

// CardFilter narrows flashcard listings. Zero fields are ignored; at most
// one dimension is applied, checked in declaration order.
type CardFilter struct {
	Type  models.FlashcardType
	Surah int
	Page  int
	Juz   int
}

// CreateFlashcard stores a new card with a fresh review state. The creation
// is undoable.
func (s *Service) CreateFlashcard(_ context.Context, card models.Flashcard) (*models.Flashcard, error) {
	if !models.ValidFlashcardType(card.Type) {
		return nil, fmt.Errorf("studyservice: flashcard type %q: %w", card.Type, apperr.ErrOutOfRange)
	}
	now := time.Now().UTC()
	card.ID = uuid.NewString()
	card.CreatedAt = now
	card.FSRS = fsrs.NewCard(now)

	cmd := &command.Func{
		Desc:      fmt.Sprintf("create %s card", card.Type),
		ExecuteFn: func() error { return s.cards.Create(card) },
		UndoFn:    func() error { return s.cards.Delete(card.ID) },
	}
	if err := s.history.Execute(cmd); err != nil {
		return nil, err
	}
	return &card, nil
}

// GetFlashcard returns one card by id.
func (s *Service) GetFlashcard(_ context.Context, id string) (*models.Flashcard, error) {
	return s.cards.Get(id)
}

// UpdateFlashcard replaces a card's content fields, keeping its review
// state. The update is undoable.
func (s *Service) UpdateFlashcard(_ context.Context, card models.Flashcard) (*models.Flashcard, error) {
	if !models.ValidFlashcardType(card.Type) {
		return nil, fmt.Errorf("studyservice: flashcard type %q: %w", card.Type, apperr.ErrOutOfRange)
	}
	previous, err := s.cards.Get(card.ID)
	if err != nil {
		return nil, err
	}
	card.CreatedAt = previous.CreatedAt
	card.FSRS = previous.FSRS
	card.LastReviewed = previous.LastReviewed

	cmd := &command.Func{
		Desc:      fmt.Sprintf("update %s card", card.Type),
		ExecuteFn: func() error { return s.cards.Update(card) },
		UndoFn:    func() error { return s.cards.Update(*previous) },
	}
	if err := s.history.Execute(cmd); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteFlashcard removes a card. The deletion is undoable; undo restores
// the card with its review state intact.
func (s *Service) DeleteFlashcard(_ context.Context, id string) error {
	previous, err := s.cards.Get(id)
	if err != nil {
		return err
	}
	cmd := &command.Func{
		Desc:      fmt.Sprintf("delete %s card", previous.Type),
		ExecuteFn: func() error { return s.cards.Delete(id) },
		UndoFn:    func() error { return s.cards.Create(*previous) },
	}
	return s.history.Execute(cmd)
}

// ListFlashcards returns cards matching the filter, all cards when the
// filter is empty.
func (s *Service) ListFlashcards(_ context.Context, filter CardFilter) ([]models.Flashcard, error) {
	switch {
	case filter.Type != "":
		if !models.ValidFlashcardType(filter.Type) {
			return nil, fmt.Errorf("studyservice: flashcard type %q: %w", filter.Type, apperr.ErrOutOfRange)
		}
		return s.cards.ByType(filter.Type)
	case filter.Surah > 0:
		return s.cards.BySurah(filter.Surah)
	case filter.Page > 0:
		return s.cards.ByPage(filter.Page)
	case filter.Juz > 0:
		return s.cards.ByJuz(filter.Juz)
	default:
		return s.cards.All()
	}
}

// DueFlashcards returns cards due for review now, oldest due first. An
// empty type means all types.
func (s *Service) DueFlashcards(_ context.Context, cardType models.FlashcardType) ([]models.Flashcard, error) {
	now := time.Now().UTC()
	if cardType == "" {
		return s.cards.Due(now)
	}
	if !models.ValidFlashcardType(cardType) {
		return nil, fmt.Errorf("studyservice: flashcard type %q: %w", cardType, apperr.ErrOutOfRange)
	}
	return s.cards.DueByType(cardType, now)
}

// ReviewFlashcard grades a card and advances its schedule. Reviews are not
// undoable; memory does not rewind.
func (s *Service) ReviewFlashcard(_ context.Context, id string, rating fsrs.Rating) (*models.Flashcard, error) {
	if !fsrs.ValidRating(rating) {
		return nil, fmt.Errorf("studyservice: rating %d: %w", rating, apperr.ErrOutOfRange)
	}
	card, err := s.cards.Get(id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	card.FSRS = s.scheduler.Rate(card.FSRS, rating, now)
	card.LastReviewed = now
	if err := s.cards.Update(*card); err != nil {
		return nil, err
	}
	return card, nil
}

// FlashcardStats summarizes the collection: totals per type and due count.
func (s *Service) FlashcardStats(_ context.Context) (*models.FlashcardStats, error) {
	return s.cards.Stats(time.Now().UTC())
}

// ExportFlashcards serializes every card to JSON.
func (s *Service) ExportFlashcards(_ context.Context) ([]byte, error) {
	return s.cards.ExportJSON()
}

// ImportFlashcards loads cards from an export, assigning fresh ids. With
// replace set the existing collection is cleared first. Imports reset the
// undo history; a bulk load is not a single reversible step.
func (s *Service) ImportFlashcards(_ context.Context, data []byte, replace bool) (int, error) {
	n, err := s.cards.ImportJSON(data, replace)
	if err != nil {
		return 0, err
	}
	s.history.Clear()
	return n, nil
}
