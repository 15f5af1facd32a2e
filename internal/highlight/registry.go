package highlight

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/quranhifz/hifzd/internal/models"
)

// Registry serves recorded word timings loaded from per-verse JSON files.
// A timing file is named <surah>_<ayah>.json and holds an array of
// {position, start_time, end_time} entries in seconds.
//
// Timestamps from the registry take precedence over the heuristic; verses
// without a file fall back to the estimator passed to TimestampsFor.
type Registry struct {
	root   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string][]WordTimestamp // verse key -> sorted timings
}

type timingEntry struct {
	Position  int     `json:"position"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// NewRegistry loads every timing file under root. The directory must
// already exist.
func NewRegistry(root string, logger *slog.Logger) (*Registry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("highlight: resolve timings root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("highlight: stat timings root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("highlight: timings root is not a directory: %s", abs)
	}

	r := &Registry{
		root:    abs,
		logger:  logger,
		entries: make(map[string][]WordTimestamp),
	}
	if err := r.loadAll(); err != nil {
		return nil, err
	}
	return r, nil
}

// Root returns the absolute timings directory.
func (r *Registry) Root() string {
	return r.root
}

// TimestampsFor returns recorded timings for a verse if a file covers it,
// otherwise builds heuristic timings from the verse's words.
func (r *Registry) TimestampsFor(verse *models.Verse, est DurationEstimator) []WordTimestamp {
	if verse == nil {
		return nil
	}
	r.mu.RLock()
	recorded, ok := r.entries[verse.VerseKey]
	r.mu.RUnlock()
	if ok {
		out := make([]WordTimestamp, len(recorded))
		copy(out, recorded)
		return out
	}
	return BuildTimestamps(verse, est)
}

// HasRecording reports whether recorded timings cover the verse key.
func (r *Registry) HasRecording(verseKey string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[verseKey]
	return ok
}

// VerseKeys returns the verse keys with recorded timings.
func (r *Registry) VerseKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

func (r *Registry) loadAll() error {
	dirEntries, err := os.ReadDir(r.root)
	if err != nil {
		return fmt.Errorf("highlight: read timings dir: %w", err)
	}
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		if err := r.loadFile(filepath.Join(r.root, de.Name())); err != nil {
			r.logger.Warn("timing file skipped",
				slog.String("file", de.Name()),
				slog.String("error", err.Error()))
		}
	}
	r.logger.Info("timing registry loaded",
		slog.String("root", r.root),
		slog.Int("verses", len(r.entries)))
	return nil
}

// loadFile parses one timing file and installs its verse entry.
func (r *Registry) loadFile(path string) error {
	verseKey, err := verseKeyFromFilename(filepath.Base(path))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("highlight: read timing file: %w", err)
	}
	var raw []timingEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("highlight: decode timing file %s: %w", filepath.Base(path), err)
	}

	timestamps := make([]WordTimestamp, 0, len(raw))
	for _, e := range raw {
		timestamps = append(timestamps, WordTimestamp{
			WordID:    TimestampWordID(verseKey, e.Position),
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			VerseKey:  verseKey,
			Position:  e.Position,
		})
	}

	r.mu.Lock()
	r.entries[verseKey] = timestamps
	r.mu.Unlock()
	return nil
}

func (r *Registry) removeFile(path string) {
	verseKey, err := verseKeyFromFilename(filepath.Base(path))
	if err != nil {
		return
	}
	r.mu.Lock()
	delete(r.entries, verseKey)
	r.mu.Unlock()
}

// verseKeyFromFilename maps "2_255.json" to "2:255".
func verseKeyFromFilename(name string) (string, error) {
	base := strings.TrimSuffix(name, ".json")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("highlight: bad timing filename: %s", name)
	}
	key := parts[0] + ":" + parts[1]
	if _, _, err := models.SplitVerseKey(key); err != nil {
		return "", fmt.Errorf("highlight: bad timing filename %s: %w", name, err)
	}
	return key, nil
}
