package batch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watcher validates files as they are created or written in a set of
// directories.
type Watcher struct {
	scanner *Scanner
	watcher *fsnotify.Watcher
	onCheck func(Report)
}

// NewWatcher watches dirs (not recursively) and passes a Report for every
// created or written file that matches the scanner's include pattern to
// onCheck. onCheck is called from a single goroutine.
func NewWatcher(s *Scanner, onCheck func(Report), dirs ...string) (*Watcher, error) {
	if onCheck == nil {
		return nil, errors.New("callback cannot be nil")
	}
	if len(dirs) == 0 {
		return nil, errors.New("no directories to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return &Watcher{scanner: s, watcher: w, onCheck: onCheck}, nil
}

// Run delivers reports until ctx is cancelled or the watcher fails. It
// closes the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	log := w.scanner.log
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.scanner.Match(event.Name) {
				continue
			}
			if st, err := os.Stat(event.Name); err != nil || !st.Mode().IsRegular() {
				continue
			}
			log.Debug("file changed", "path", event.Name, "op", event.Op.String())
			w.onCheck(w.scanner.Check(event.Name))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				continue
			}
			return fmt.Errorf("watching: %w", err)
		}
	}
}
