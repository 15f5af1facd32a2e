package studyservice

import (
	"context"
	"fmt"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/command"
	"github.com/quranhifz/hifzd/internal/models"
)

// AddAnnotation stores a new annotation on a page or verse. The addition is
// undoable.
func (s *Service) AddAnnotation(_ context.Context, a models.Annotation) (*models.Annotation, error) {
	if !models.ValidAnnotationType(a.Type) {
		return nil, fmt.Errorf("studyservice: annotation type %q: %w", a.Type, apperr.ErrOutOfRange)
	}
	var saved *models.Annotation
	cmd := &command.Func{
		Desc: fmt.Sprintf("add %s", a.Type),
		ExecuteFn: func() error {
			// Redo after undo reinserts the same record.
			if saved != nil {
				return s.annotations.Restore(*saved)
			}
			stored, err := s.annotations.Add(a)
			if err != nil {
				return err
			}
			saved = stored
			return nil
		},
		UndoFn: func() error { return s.annotations.Delete(saved.ID) },
	}
	if err := s.history.Execute(cmd); err != nil {
		return nil, err
	}
	return saved, nil
}

// GetAnnotation returns one annotation by id.
func (s *Service) GetAnnotation(_ context.Context, id string) (*models.Annotation, error) {
	return s.annotations.Get(id)
}

// UpdateAnnotation replaces an annotation's content. The update is undoable.
func (s *Service) UpdateAnnotation(_ context.Context, a models.Annotation) (*models.Annotation, error) {
	if !models.ValidAnnotationType(a.Type) {
		return nil, fmt.Errorf("studyservice: annotation type %q: %w", a.Type, apperr.ErrOutOfRange)
	}
	previous, err := s.annotations.Get(a.ID)
	if err != nil {
		return nil, err
	}
	var saved *models.Annotation
	cmd := &command.Func{
		Desc: fmt.Sprintf("update %s", a.Type),
		ExecuteFn: func() error {
			stored, err := s.annotations.Update(a)
			if err != nil {
				return err
			}
			saved = stored
			return nil
		},
		UndoFn: func() error {
			_, err := s.annotations.Update(*previous)
			return err
		},
	}
	if err := s.history.Execute(cmd); err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteAnnotation removes an annotation. The deletion is undoable; undo
// restores the record with its original id and timestamps.
func (s *Service) DeleteAnnotation(_ context.Context, id string) error {
	previous, err := s.annotations.Get(id)
	if err != nil {
		return err
	}
	cmd := &command.Func{
		Desc:      fmt.Sprintf("delete %s", previous.Type),
		ExecuteFn: func() error { return s.annotations.Delete(id) },
		UndoFn:    func() error { return s.annotations.Restore(*previous) },
	}
	return s.history.Execute(cmd)
}

// QueryAnnotations returns annotations matching the filter, oldest first.
func (s *Service) QueryAnnotations(_ context.Context, filter models.AnnotationFilter) ([]models.Annotation, error) {
	if filter.Type != "" && !models.ValidAnnotationType(filter.Type) {
		return nil, fmt.Errorf("studyservice: annotation type %q: %w", filter.Type, apperr.ErrOutOfRange)
	}
	return s.annotations.Query(filter)
}

// ClearPageAnnotations removes every annotation on a page and reports how
// many were removed. Bulk clears are undoable as a single step.
func (s *Service) ClearPageAnnotations(ctx context.Context, page int) (int, error) {
	existing, err := s.annotations.Query(models.AnnotationFilter{PageNumber: page})
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, nil
	}
	cmd := &command.Func{
		Desc: fmt.Sprintf("clear page %d annotations", page),
		ExecuteFn: func() error {
			_, err := s.annotations.DeleteByPage(page)
			return err
		},
		UndoFn: func() error {
			for _, a := range existing {
				if err := s.annotations.Restore(a); err != nil {
					return err
				}
			}
			return nil
		},
	}
	if err := s.history.Execute(cmd); err != nil {
		return 0, err
	}
	return len(existing), nil
}

// AnnotationStats summarizes the stored annotations.
func (s *Service) AnnotationStats(_ context.Context) (*models.AnnotationStats, error) {
	return s.annotations.Stats()
}

// ExportAnnotations serializes every annotation to JSON.
func (s *Service) ExportAnnotations(_ context.Context) ([]byte, error) {
	return s.annotations.ExportJSON()
}

// ImportAnnotations loads annotations from an export, assigning fresh ids.
// Imports reset the undo history.
func (s *Service) ImportAnnotations(_ context.Context, data []byte, replace bool) (int, error) {
	n, err := s.annotations.ImportJSON(data, replace)
	if err != nil {
		return 0, err
	}
	s.history.Clear()
	return n, nil
}
