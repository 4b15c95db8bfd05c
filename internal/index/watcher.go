package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/library"
)

// EventCallback is called for every change a watcher-driven sync applies.
type EventCallback func(Change)

// Watch starts an fsnotify watcher on the site root and re-syncs the
// affected sections, debounced, until ctx is cancelled. A manifest change
// dirties its own section; an article change dirties every section, since
// sync skips unchanged checksums.
//
// New directories created at runtime are automatically added to the watch
// list.
func Watch(ctx context.Context, db ArticleIndex, lib *library.Service, root string, debounce time.Duration, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	logger.Info("watcher: started", slog.String("root", root))

	dirty := map[string]struct{}{}
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(sections ...string) {
		for _, s := range sections {
			dirty[s] = struct{}{}
		}
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for section := range dirty {
				changes, err := SyncSection(ctx, db, lib, section, logger)
				if err != nil {
					logger.Warn("watcher: sync failed", slog.String("section", section), slog.String("error", err.Error()))
					continue
				}
				if cb == nil {
					continue
				}
				for _, c := range changes {
					cb(c)
				}
			}
			dirty = map[string]struct{}{}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule(sectionNames(lib)...)
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			rel, err := filepath.Rel(root, ev.Name)
			if err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
			if affected := affectedSections(lib, filepath.ToSlash(rel)); len(affected) > 0 {
				logger.Debug("watcher: change", slog.String("path", rel), slog.String("op", ev.Op.String()))
				schedule(affected...)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func affectedSections(lib *library.Service, rel string) []string {
	for _, sec := range lib.Sections() {
		if rel == sec.Manifest {
			return []string{sec.Name}
		}
	}
	if strings.HasSuffix(rel, ".md") {
		return sectionNames(lib)
	}
	return nil
}

func sectionNames(lib *library.Service) []string {
	secs := lib.Sections()
	names := make([]string, len(secs))
	for i, s := range secs {
		names[i] = s.Name
	}
	return names
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
