// Package versecache is the cached verse data source. It wraps the remote
// API client with a TTL key-value cache so that pages and verses are fetched
// at most once per TTL window and reads work offline afterwards.
package versecache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/mushaf"
)

// TTL is how long a cached entry stays valid. Verse text is immutable, so
// the window is generous; entries older than this are treated as absent.
const TTL = 365 * 24 * time.Hour

const (
	pageKeyPrefix      = "page_"
	verseKeyPrefix     = "verse_"
	richVerseKeyPrefix = "verse_words_"
)

// Fetcher is the remote half of the data source.
type Fetcher interface {
	FetchPageVerses(ctx context.Context, page int) ([]models.Verse, error)
	FetchVerse(ctx context.Context, surah, ayah int) (*models.Verse, error)
	FetchVerseWithWords(ctx context.Context, surah, ayah int) (*models.Verse, error)
}

// KV is the persistent key-value store backing the cache.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	CountPrefix(ctx context.Context, prefix string) (int, error)
	FlushAll(ctx context.Context) error
}

// Stats reports how many entries of each kind the cache holds.
type Stats struct {
	Pages  int `json:"pages"`
	Verses int `json:"verses"`
}

// Source is the cache-then-fetch verse data source. Concurrent misses for
// the same key are not de-duplicated; both fetch and the last write wins,
// which is safe for immutable verse data.
type Source struct {
	fetcher Fetcher
	kv      KV
	logger  *slog.Logger
}

func New(fetcher Fetcher, kv KV, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{fetcher: fetcher, kv: kv, logger: logger}
}

// GetPageVerses returns all verses of a Mushaf page, from cache when a valid
// entry exists, fetching and caching otherwise.
func (s *Source) GetPageVerses(ctx context.Context, page int) ([]models.Verse, error) {
	if page < 1 || page > mushaf.TotalPages {
		return nil, fmt.Errorf("versecache: page %d: %w", page, apperr.ErrOutOfRange)
	}

	key := fmt.Sprintf("%s%d", pageKeyPrefix, page)

	var cached []models.Verse
	ok, err := s.lookup(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if ok {
		return cached, nil
	}

	verses, err := s.fetcher.FetchPageVerses(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("versecache: fetch page %d: %w", page, err)
	}

	s.put(ctx, key, verses)
	return verses, nil
}

// GetVerse returns a single verse without word detail.
func (s *Source) GetVerse(ctx context.Context, surah, ayah int) (*models.Verse, error) {
	if err := checkSurah(surah); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s%d_%d", verseKeyPrefix, surah, ayah)

	var cached models.Verse
	ok, err := s.lookup(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if ok {
		return &cached, nil
	}

	verse, err := s.fetcher.FetchVerse(ctx, surah, ayah)
	if err != nil {
		return nil, fmt.Errorf("versecache: fetch verse %d:%d: %w", surah, ayah, err)
	}

	s.put(ctx, key, verse)
	return verse, nil
}

// GetVerseWithWords returns a verse with the rich word field set. It is
// cached under its own key so the two verse caches never collide.
func (s *Source) GetVerseWithWords(ctx context.Context, surah, ayah int) (*models.Verse, error) {
	if err := checkSurah(surah); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s%d_%d", richVerseKeyPrefix, surah, ayah)

	var cached models.Verse
	ok, err := s.lookup(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if ok {
		return &cached, nil
	}

	verse, err := s.fetcher.FetchVerseWithWords(ctx, surah, ayah)
	if err != nil {
		return nil, fmt.Errorf("versecache: fetch verse words %d:%d: %w", surah, ayah, err)
	}

	s.put(ctx, key, verse)
	return verse, nil
}

// ClearCache drops every cached entry. Safe on an empty cache.
func (s *Source) ClearCache(ctx context.Context) error {
	if err := s.kv.FlushAll(ctx); err != nil {
		return fmt.Errorf("versecache: clear: %w: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// CacheStats counts cached pages and verses. Safe on an empty cache.
func (s *Source) CacheStats(ctx context.Context) (Stats, error) {
	pages, err := s.kv.CountPrefix(ctx, pageKeyPrefix)
	if err != nil {
		return Stats{}, fmt.Errorf("versecache: stats: %w: %v", apperr.ErrUnavailable, err)
	}
	verses, err := s.kv.CountPrefix(ctx, verseKeyPrefix)
	if err != nil {
		return Stats{}, fmt.Errorf("versecache: stats: %w: %v", apperr.ErrUnavailable, err)
	}
	return Stats{Pages: pages, Verses: verses}, nil
}

// lookup reads and decodes a cache entry. A decode failure is treated as a
// miss so a corrupt entry heals itself on the next fetch.
func (s *Source) lookup(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("versecache: read %s: %w: %v", key, apperr.ErrUnavailable, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("cache entry corrupt, refetching",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false, nil
	}
	return true, nil
}

// put stores a cache entry. Write failures are logged, not returned: the
// fetched data is still good for the caller.
func (s *Source) put(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("cache encode failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := s.kv.Set(ctx, key, raw, TTL); err != nil {
		s.logger.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func checkSurah(surah int) error {
	if surah < 1 || surah > mushaf.TotalSurahs {
		return fmt.Errorf("versecache: surah %d: %w", surah, apperr.ErrOutOfRange)
	}
	return nil
}
