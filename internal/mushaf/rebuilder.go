package mushaf

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/models"
)

// VerseSource is the slice of the verse data source the rebuilder needs.
type VerseSource interface {
	GetPageVerses(ctx context.Context, page int) ([]models.Verse, error)
}

// Line is one reconstructed line of a Mushaf page: its words in reading
// order and the verse keys that touch it. Derived, recomputed per page load.
type Line struct {
	LineNumber int           `json:"line_number"`
	Words      []models.Word `json:"words"`
	VerseKeys  []string      `json:"verse_keys"`
}

// Page is a reconstructed Mushaf page.
type Page struct {
	PageNumber   int            `json:"page_number"`
	Lines        []Line         `json:"lines"`
	Verses       []models.Verse `json:"verses"`
	EditionID    string         `json:"edition_id"`
	LinesPerPage int            `json:"lines_per_page"`
}

// Rebuilder reconstructs pages of a specific edition from API verse data.
// The upstream line_number field is trusted as ground truth; the rebuilder
// only groups and orders.
type Rebuilder struct {
	source      VerseSource
	fingerprint Fingerprint
	logger      *slog.Logger
}

func NewRebuilder(source VerseSource, editionID string, logger *slog.Logger) (*Rebuilder, error) {
	fp, ok := FingerprintByID(editionID)
	if !ok {
		return nil, fmt.Errorf("mushaf: unknown edition %q: %w", editionID, apperr.ErrNotFound)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebuilder{source: source, fingerprint: *fp, logger: logger}, nil
}

// Fingerprint returns the edition this rebuilder targets.
func (r *Rebuilder) Fingerprint() Fingerprint {
	return r.fingerprint
}

// RebuildPage reconstructs one page: words grouped by their upstream line
// number, ordered within each line by position, lines ascending. A line
// count above the edition's lines-per-page is a consistency warning, not an
// error; partial upstream data should never block reading.
func (r *Rebuilder) RebuildPage(ctx context.Context, page int) (*Page, error) {
	return r.rebuildPage(ctx, page, r.fingerprint.LinesPerPage)
}

// RebuildPageWithLines is RebuildPage with an explicit lines-per-page
// override, used while an edition is still being detected.
func (r *Rebuilder) RebuildPageWithLines(ctx context.Context, page, linesPerPage int) (*Page, error) {
	return r.rebuildPage(ctx, page, linesPerPage)
}

func (r *Rebuilder) rebuildPage(ctx context.Context, page, linesPerPage int) (*Page, error) {
	if page < 1 || page > TotalPages {
		return nil, fmt.Errorf("mushaf: page %d: %w", page, apperr.ErrOutOfRange)
	}

	verses, err := r.source.GetPageVerses(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("mushaf: rebuild page %d: %w", page, err)
	}
	if len(verses) == 0 {
		return nil, fmt.Errorf("mushaf: page %d: %w", page, apperr.ErrNoData)
	}

	// Words can be looked up back to their verse by id.
	verseByWordID := make(map[int]string)
	for _, v := range verses {
		for _, w := range v.Words {
			verseByWordID[w.ID] = v.VerseKey
		}
	}

	lineWords := make(map[int][]models.Word)
	lineVerseKeys := make(map[int]map[string]struct{})
	for _, v := range verses {
		for _, w := range v.Words {
			n := w.LineNumber
			if n == 0 {
				n = 1
			}
			lineWords[n] = append(lineWords[n], w)
			if lineVerseKeys[n] == nil {
				lineVerseKeys[n] = make(map[string]struct{})
			}
			lineVerseKeys[n][verseByWordID[w.ID]] = struct{}{}
		}
	}

	lineNumbers := make([]int, 0, len(lineWords))
	for n := range lineWords {
		lineNumbers = append(lineNumbers, n)
	}
	sort.Ints(lineNumbers)

	lines := make([]Line, 0, len(lineNumbers))
	for _, n := range lineNumbers {
		words := lineWords[n]
		sort.Slice(words, func(i, j int) bool { return words[i].Position < words[j].Position })

		keys := make([]string, 0, len(lineVerseKeys[n]))
		for k := range lineVerseKeys[n] {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		lines = append(lines, Line{LineNumber: n, Words: words, VerseKeys: keys})
	}

	if len(lines) > linesPerPage {
		r.logger.Warn("page line count exceeds edition layout",
			slog.Int("page", page),
			slog.Int("lines", len(lines)),
			slog.Int("expected", linesPerPage))
	}

	return &Page{
		PageNumber:   page,
		Lines:        lines,
		Verses:       verses,
		EditionID:    r.fingerprint.ID,
		LinesPerPage: linesPerPage,
	}, nil
}

// VerifyPageBoundaries checks a page's first and last verse against the
// edition's registered sample. Pages without a sample are trivially valid;
// a fetch failure reports false rather than an error.
func (r *Rebuilder) VerifyPageBoundaries(ctx context.Context, page int) bool {
	sample, ok := r.fingerprint.SampleFor(page)
	if !ok {
		return true
	}

	verses, err := r.source.GetPageVerses(ctx, page)
	if err != nil {
		r.logger.Warn("boundary verification fetch failed",
			slog.Int("page", page),
			slog.String("error", err.Error()))
		return false
	}
	if len(verses) == 0 {
		return false
	}

	first := verses[0].VerseKey
	last := verses[len(verses)-1].VerseKey
	return first == models.VerseKey(sample.FirstAyah.Surah, sample.FirstAyah.Ayah) &&
		last == models.VerseKey(sample.LastAyah.Surah, sample.LastAyah.Ayah)
}

// RebuildPages reconstructs an inclusive page range sequentially.
func (r *Rebuilder) RebuildPages(ctx context.Context, start, end int) ([]*Page, error) {
	if start < 1 || end > TotalPages || start > end {
		return nil, fmt.Errorf("mushaf: page range %d-%d: %w", start, end, apperr.ErrOutOfRange)
	}

	pages := make([]*Page, 0, end-start+1)
	for p := start; p <= end; p++ {
		page, err := r.RebuildPage(ctx, p)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// LineCount reports how many lines a page actually produces.
func (r *Rebuilder) LineCount(ctx context.Context, page int) (int, error) {
	p, err := r.RebuildPage(ctx, page)
	if err != nil {
		return 0, err
	}
	return len(p.Lines), nil
}
