package studyservice

import "context"

// HistoryInfo describes the current undo and redo stacks, most recent
// action first.
type HistoryInfo struct {
	CanUndo bool     `json:"can_undo"`
	CanRedo bool     `json:"can_redo"`
	Undo    []string `json:"undo"`
	Redo    []string `json:"redo"`
}

// Undo reverses the most recent edit. It reports false when there is
// nothing to undo, and the description of the reversed action otherwise.
func (s *Service) Undo(_ context.Context) (bool, string, error) {
	desc := s.history.UndoDescription()
	ok, err := s.history.Undo()
	if !ok || err != nil {
		return ok, "", err
	}
	return true, desc, nil
}

// Redo reapplies the most recently undone edit.
func (s *Service) Redo(_ context.Context) (bool, string, error) {
	desc := s.history.RedoDescription()
	ok, err := s.history.Redo()
	if !ok || err != nil {
		return ok, "", err
	}
	return true, desc, nil
}

// History reports both stacks for display.
func (s *Service) History(_ context.Context) HistoryInfo {
	return HistoryInfo{
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
		Undo:    s.history.UndoHistory(),
		Redo:    s.history.RedoHistory(),
	}
}
