// Package studyservice coordinates the reading and memorization engines
// behind one application-facing service: page reconstruction, verse lookup
// and search, flashcard review, annotations, and undo history.
package studyservice

import (
	"log/slog"

	"github.com/quranhifz/hifzd/internal/command"
	"github.com/quranhifz/hifzd/internal/fsrs"
	"github.com/quranhifz/hifzd/internal/highlight"
	"github.com/quranhifz/hifzd/internal/layout"
	"github.com/quranhifz/hifzd/internal/mushaf"
	"github.com/quranhifz/hifzd/internal/store"
	"github.com/quranhifz/hifzd/internal/versecache"
)

// PageNotifier receives page change notifications for connected clients.
type PageNotifier interface {
	PublishPageChange(page int)
}

// Deps are the collaborators a Service needs. Rebuilder, Verses, Index,
// Cards, and Annotations are required; the rest default sensibly.
type Deps struct {
	Rebuilder   *mushaf.Rebuilder
	Verses      *versecache.Source
	Index       store.VerseIndex
	Cards       store.FlashcardStore
	Annotations store.AnnotationStore
	Scheduler   *fsrs.Scheduler
	History     *command.Stack
	Notifier    PageNotifier
	Grid        layout.GridConfig
	Logger      *slog.Logger

	// Surface, when set, enables the playback highlight loop; Timings and
	// Estimator control where word timings come from.
	Surface   highlight.Surface
	Timings   *highlight.Registry
	Estimator highlight.DurationEstimator
}

// Service is the application service shared by the REST and MCP adapters.
type Service struct {
	rebuilder   *mushaf.Rebuilder
	verses      *versecache.Source
	index       store.VerseIndex
	cards       store.FlashcardStore
	annotations store.AnnotationStore
	scheduler   *fsrs.Scheduler
	history     *command.Stack
	notifier    PageNotifier
	grid        layout.GridConfig
	logger      *slog.Logger

	sync      *highlight.Synchronizer
	timings   *highlight.Registry
	estimator highlight.DurationEstimator
	clock     *playbackClock
}

// NewService wires a Service from its dependencies.
func NewService(d Deps) *Service {
	if d.Scheduler == nil {
		d.Scheduler = fsrs.NewScheduler(fsrs.DefaultParams())
	}
	if d.History == nil {
		d.History = command.NewStack()
	}
	if d.Grid == (layout.GridConfig{}) {
		d.Grid = layout.DefaultGrid()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Estimator == nil {
		d.Estimator = highlight.HeuristicEstimator{}
	}
	svc := &Service{
		rebuilder:   d.Rebuilder,
		verses:      d.Verses,
		index:       d.Index,
		cards:       d.Cards,
		annotations: d.Annotations,
		scheduler:   d.Scheduler,
		history:     d.History,
		notifier:    d.Notifier,
		grid:        d.Grid,
		logger:      d.Logger,
		timings:     d.Timings,
		estimator:   d.Estimator,
		clock:       &playbackClock{},
	}
	if d.Surface != nil {
		svc.sync = highlight.NewSynchronizer(d.Surface, d.Logger)
	}
	return svc
}

// Edition returns the fingerprint of the edition being served.
func (s *Service) Edition() mushaf.Fingerprint {
	return s.rebuilder.Fingerprint()
}
