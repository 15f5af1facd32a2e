package studyservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/layout"
	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/mushaf"
	"github.com/quranhifz/hifzd/internal/store"
	"github.com/quranhifz/hifzd/internal/versecache"
)

// PageDetail bundles a reconstructed page with its spatial map.
type PageDetail struct {
	Page *mushaf.Page    `json:"page"`
	Map  *layout.PageMap `json:"map"`
}

// PageCheck is the result of verifying a page against the edition sample.
type PageCheck struct {
	Page  int  `json:"page"`
	Valid bool `json:"valid"`
}

// GetPage reconstructs a page, builds its spatial map, and feeds the page's
// verses into the search index. Connected clients are notified of the page
// change. Indexing is best effort; a failed upsert never blocks reading.
func (s *Service) GetPage(ctx context.Context, page int) (*PageDetail, error) {
	p, err := s.rebuilder.RebuildPage(ctx, page)
	if err != nil {
		return nil, err
	}
	pm := layout.NewMapper(s.grid).BuildPageMap(p)

	if err := s.index.UpsertVerses(p.Verses); err != nil {
		s.logger.Warn("verse indexing failed",
			slog.Int("page", page),
			slog.String("error", err.Error()))
	}
	if s.notifier != nil {
		s.notifier.PublishPageChange(page)
	}
	return &PageDetail{Page: p, Map: pm}, nil
}

// PageMap builds only the spatial map of a page.
func (s *Service) PageMap(ctx context.Context, page int) (*layout.PageMap, error) {
	p, err := s.rebuilder.RebuildPage(ctx, page)
	if err != nil {
		return nil, err
	}
	return layout.NewMapper(s.grid).BuildPageMap(p), nil
}

// VerifyPage checks a page's first and last verse against the edition's
// registered sample ayahs.
func (s *Service) VerifyPage(ctx context.Context, page int) (*PageCheck, error) {
	if page < 1 || page > mushaf.TotalPages {
		return nil, fmt.Errorf("studyservice: page %d: %w", page, apperr.ErrOutOfRange)
	}
	return &PageCheck{Page: page, Valid: s.rebuilder.VerifyPageBoundaries(ctx, page)}, nil
}

// GetVerse fetches one verse, with word segments, by its "surah:ayah" key.
func (s *Service) GetVerse(ctx context.Context, key string) (*models.Verse, error) {
	surah, ayah, err := models.SplitVerseKey(key)
	if err != nil {
		return nil, fmt.Errorf("studyservice: %w: %w", err, apperr.ErrOutOfRange)
	}
	return s.verses.GetVerseWithWords(ctx, surah, ayah)
}

// SearchVerses runs a diacritic-insensitive search over the indexed verses.
func (s *Service) SearchVerses(_ context.Context, query string, limit int) ([]store.VerseHit, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.index.Search(query, limit)
}

// CacheStats reports verse cache usage.
func (s *Service) CacheStats(ctx context.Context) (versecache.Stats, error) {
	return s.verses.CacheStats(ctx)
}

// ClearCache drops all cached verse data.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.verses.ClearCache(ctx)
}
