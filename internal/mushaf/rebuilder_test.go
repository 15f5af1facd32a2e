package mushaf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/models"
)

type fakeSource struct {
	pages map[int][]models.Verse
	err   error
	calls int
}

func (s *fakeSource) GetPageVerses(_ context.Context, page int) ([]models.Verse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.pages[page], nil
}

// pageOneVerses returns fixture data with words delivered out of order, so
// tests can assert the rebuilder sorts lines and positions itself.
func pageOneVerses() []models.Verse {
	return []models.Verse{
		{
			ID: 1, VerseKey: "1:1", Number: 1, PageNumber: 1, JuzNumber: 1,
			Text: "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ",
			Words: []models.Word{
				{ID: 3, Position: 3, Text: "ٱلرَّحْمَٰنِ", LineNumber: 2, PageNumber: 1},
				{ID: 1, Position: 1, Text: "بِسْمِ", LineNumber: 2, PageNumber: 1},
				{ID: 2, Position: 2, Text: "ٱللَّهِ", LineNumber: 2, PageNumber: 1},
			},
		},
		{
			ID: 6, VerseKey: "2:5", Number: 5, PageNumber: 1, JuzNumber: 1,
			Text: "أُولَٰئِكَ عَلَىٰ هُدًى",
			Words: []models.Word{
				{ID: 21, Position: 2, Text: "عَلَىٰ", LineNumber: 1, PageNumber: 1},
				{ID: 20, Position: 1, Text: "أُولَٰئِكَ", LineNumber: 1, PageNumber: 1},
			},
		},
	}
}

func newTestRebuilder(t *testing.T, source VerseSource, editionID string) *Rebuilder {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := NewRebuilder(source, editionID, logger)
	if err != nil {
		t.Fatalf("NewRebuilder: %v", err)
	}
	return r
}

func TestNewRebuilderUnknownEdition(t *testing.T) {
	_, err := NewRebuilder(&fakeSource{}, "braille-6", nil)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRebuildPageGroupsAndSorts(t *testing.T) {
	source := &fakeSource{pages: map[int][]models.Verse{1: pageOneVerses()}}
	r := newTestRebuilder(t, source, "madani-15")

	page, err := r.RebuildPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("RebuildPage: %v", err)
	}
	if page.PageNumber != 1 || page.EditionID != "madani-15" || page.LinesPerPage != 15 {
		t.Errorf("page header wrong: %+v", page)
	}
	if len(page.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(page.Lines))
	}

	// Lines come back ascending even though the fixture delivers line 2
	// words first.
	if page.Lines[0].LineNumber != 1 || page.Lines[1].LineNumber != 2 {
		t.Errorf("line order = %d, %d", page.Lines[0].LineNumber, page.Lines[1].LineNumber)
	}

	line2 := page.Lines[1]
	for i, w := range line2.Words {
		if w.Position != i+1 {
			t.Errorf("line 2 word %d has position %d", i, w.Position)
		}
	}
	if len(line2.VerseKeys) != 1 || line2.VerseKeys[0] != "1:1" {
		t.Errorf("line 2 verse keys = %v", line2.VerseKeys)
	}
	if len(page.Lines[0].VerseKeys) != 1 || page.Lines[0].VerseKeys[0] != "2:5" {
		t.Errorf("line 1 verse keys = %v", page.Lines[0].VerseKeys)
	}
}

func TestRebuildPageRange(t *testing.T) {
	r := newTestRebuilder(t, &fakeSource{}, "madani-15")

	for _, page := range []int{0, -3, 605} {
		if _, err := r.RebuildPage(context.Background(), page); !errors.Is(err, apperr.ErrOutOfRange) {
			t.Errorf("page %d: err = %v, want ErrOutOfRange", page, err)
		}
	}
}

func TestRebuildPageNoData(t *testing.T) {
	r := newTestRebuilder(t, &fakeSource{pages: map[int][]models.Verse{}}, "madani-15")

	if _, err := r.RebuildPage(context.Background(), 3); !errors.Is(err, apperr.ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

func TestRebuildPageSourceError(t *testing.T) {
	r := newTestRebuilder(t, &fakeSource{err: errors.New("network down")}, "madani-15")

	if _, err := r.RebuildPage(context.Background(), 1); err == nil {
		t.Fatal("expected source error to propagate")
	}
}

func TestRebuildPageZeroLineNumberLandsOnLineOne(t *testing.T) {
	verses := []models.Verse{
		{
			ID: 1, VerseKey: "1:1", Number: 1, PageNumber: 1,
			Words: []models.Word{
				{ID: 1, Position: 1, Text: "بِسْمِ", LineNumber: 0, PageNumber: 1},
			},
		},
	}
	r := newTestRebuilder(t, &fakeSource{pages: map[int][]models.Verse{1: verses}}, "madani-15")

	page, err := r.RebuildPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("RebuildPage: %v", err)
	}
	if len(page.Lines) != 1 || page.Lines[0].LineNumber != 1 {
		t.Errorf("lines = %+v, want a single line 1", page.Lines)
	}
}

func TestVerifyPageBoundaries(t *testing.T) {
	source := &fakeSource{pages: map[int][]models.Verse{
		1: pageOneVerses(),
		2: {
			{ID: 7, VerseKey: "2:6", Number: 6, PageNumber: 2},
			{ID: 8, VerseKey: "2:10", Number: 10, PageNumber: 2},
		},
	}}
	r := newTestRebuilder(t, source, "madani-15")
	ctx := context.Background()

	if !r.VerifyPageBoundaries(ctx, 1) {
		t.Error("page 1 matches its registered sample and should verify")
	}
	if r.VerifyPageBoundaries(ctx, 2) {
		t.Error("page 2 ends at 2:10, not the registered 2:16")
	}
	// No sample registered for page 3, trivially valid.
	if !r.VerifyPageBoundaries(ctx, 3) {
		t.Error("pages without a sample should verify")
	}
	// A fetch failure reports false, not an error.
	r = newTestRebuilder(t, &fakeSource{err: errors.New("network down")}, "madani-15")
	if r.VerifyPageBoundaries(ctx, 1) {
		t.Error("fetch failure should report false")
	}
}

func TestRebuildPages(t *testing.T) {
	source := &fakeSource{pages: map[int][]models.Verse{
		1: pageOneVerses(),
		2: {
			{ID: 7, VerseKey: "2:6", Number: 6, PageNumber: 2,
				Words: []models.Word{{ID: 30, Position: 1, Text: "ذَٰلِكَ", LineNumber: 1, PageNumber: 2}}},
		},
	}}
	r := newTestRebuilder(t, source, "madani-15")

	pages, err := r.RebuildPages(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("RebuildPages: %v", err)
	}
	if len(pages) != 2 || pages[0].PageNumber != 1 || pages[1].PageNumber != 2 {
		t.Errorf("pages = %+v", pages)
	}

	if _, err := r.RebuildPages(context.Background(), 5, 2); !errors.Is(err, apperr.ErrOutOfRange) {
		t.Errorf("inverted range: err = %v, want ErrOutOfRange", err)
	}
}

func TestLineCount(t *testing.T) {
	source := &fakeSource{pages: map[int][]models.Verse{1: pageOneVerses()}}
	r := newTestRebuilder(t, source, "madani-15")

	n, err := r.LineCount(context.Background(), 1)
	if err != nil {
		t.Fatalf("LineCount: %v", err)
	}
	if n != 2 {
		t.Errorf("LineCount = %d, want 2", n)
	}
}
