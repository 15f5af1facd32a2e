package highlight

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the registry's timings directory and
// reloads timing files as they change, until ctx is cancelled. Recorded
// timings dropped on disk while the app runs become available without a
// restart.
func Watch(ctx context.Context, registry *Registry, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(registry.Root()); err != nil {
		return err
	}

	logger.Info("timing watcher: started", slog.String("root", registry.Root()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("timing watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if loadErr := registry.loadFile(ev.Name); loadErr != nil {
					logger.Warn("timing watcher: load failed",
						slog.String("file", filepath.Base(ev.Name)),
						slog.String("error", loadErr.Error()))
					continue
				}
				logger.Debug("timing watcher: loaded", slog.String("file", filepath.Base(ev.Name)))

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Renames fire on the old path; the new path arrives as a
				// separate Create event.
				registry.removeFile(ev.Name)
				logger.Debug("timing watcher: removed", slog.String("file", filepath.Base(ev.Name)))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("timing watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
