package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle
const DefaultDebounce = 150 * time.Millisecond

// ChangeFunc is called with the watched files that changed since the last call
type ChangeFunc func(ctx context.Context, changed []string)

// FileWatcher calls back when any of a fixed set of files changes. Parent
// directories are watched so editors that save by rename are seen too.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	onChange ChangeFunc
	log      zerolog.Logger
}

// NewFileWatcher creates a watcher for files
func NewFileWatcher(files []string, debounce time.Duration, onChange ChangeFunc, log zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]struct{}, len(files)),
		debounce: debounce,
		onChange: onChange,
		log:      log.With().Str("component", "watch").Logger(),
	}

	dirs := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	return fw, nil
}

// Start blocks, delivering debounced changes until ctx is cancelled. Callbacks
// run one at a time on this goroutine.
func (fw *FileWatcher) Start(ctx context.Context) error {
	pending := map[string]struct{}{}
	timer := time.NewTimer(fw.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if !fw.shouldWatch(event) {
				continue
			}
			fw.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("File changed")
			pending[filepath.Clean(event.Name)] = struct{}{}
			timer.Reset(fw.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			fw.onChange(ctx, changed)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				fw.log.Warn().Err(err).Msg("Watcher error")
			}
		}
	}
}

// shouldWatch reports whether event touches one of the watched files
func (fw *FileWatcher) shouldWatch(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := fw.files[abs]
	return ok
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
