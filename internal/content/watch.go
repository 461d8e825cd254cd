package content

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 250 * time.Millisecond

// Watch reloads the content file at path whenever it changes and hands the
// new site to onChange. A file that fails to load is logged and the previous
// content stays in effect. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself so that editors
// which save by rename keep triggering reloads.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Site)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("content watcher: started", slog.String("path", abs))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("content watcher: stopped")
			return nil

		case <-timerC:
			timerC = nil
			site, err := Load(ctx, abs)
			if err != nil {
				logger.Warn("content watcher: reload failed, keeping previous content",
					slog.String("path", abs),
					slog.String("error", err.Error()))
				continue
			}
			logger.Info("content watcher: reloaded",
				slog.String("path", abs),
				slog.Int("projects", len(site.Projects)))
			onChange(site)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			timerC = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content watcher: error", slog.String("error", err.Error()))
		}
	}
}
