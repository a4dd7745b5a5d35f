// Package watch re-runs an analysis when its input file changes.
package watch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/queryscope/errors"
	"github.com/teranos/queryscope/logger"
	"github.com/teranos/queryscope/sym"
)

// RunFunc is invoked after the watched file settles. A returned error is
// logged; watching continues.
type RunFunc func(path string) error

// FileWatcher watches one input file and invokes a callback on change,
// debounced so editors that write in bursts trigger a single run.
type FileWatcher struct {
	path           string
	watcher        *fsnotify.Watcher
	run            RunFunc
	debouncePeriod time.Duration

	mu            sync.Mutex
	debounceTimer *time.Timer
}

// NewFileWatcher watches path and calls run on each settled change.
func NewFileWatcher(path string, run RunFunc) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watch input file %s", path)
	}

	return &FileWatcher{
		path:           path,
		watcher:        watcher,
		run:            run,
		debouncePeriod: 500 * time.Millisecond,
	}, nil
}

// Watch blocks until ctx is done, re-running the analysis on each change.
func (fw *FileWatcher) Watch(ctx context.Context) error {
	logger.Infow("Watching input for changes",
		logger.FieldInput, fw.path,
		logger.FieldSymbol, sym.Watch,
	)

	defer fw.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if isBackupFile(event.Name) {
				continue
			}
			logger.Debugw("Input changed",
				logger.FieldInput, event.Name,
				"op", event.Op.String(),
			)
			fw.scheduleRun()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// scheduleRun debounces rapid writes before invoking the callback.
func (fw *FileWatcher) scheduleRun() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.debouncePeriod, func() {
		if err := fw.run(fw.path); err != nil {
			logger.Errorw("Watched run failed",
				logger.FieldInput, fw.path,
				logger.FieldError, err,
			)
		}
	})
}

// Close stops watching. Safe to call more than once.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}

// isBackupFile reports editor temp/backup artifacts that should not trigger
// a re-run.
func isBackupFile(path string) bool {
	return strings.HasSuffix(path, "~") ||
		strings.HasSuffix(path, ".swp") ||
		strings.HasSuffix(path, ".tmp") ||
		strings.HasSuffix(path, ".bak")
}
