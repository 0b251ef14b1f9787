package category

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Change is one settled edit of a table asset. Table is the reloaded table,
// or nil with Err set when the asset was removed or no longer validates.
type Change struct {
	Path  string
	Table *Table
	Err   error
}

// Watcher reloads category assets as they are edited. An asset is reloaded
// once it has been quiet for the debounce interval, so a save that truncates
// and then writes is seen as a single change.
type Watcher struct {
	watcher *fsnotify.Watcher
	match   func(path string) bool
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher reports every .yaml/.yml asset in the given directories.
func NewWatcher(dirs ...string) (*Watcher, error) {
	return newWatcher(isAssetFile, dirs...)
}

// WatchTable reports edits to the single table asset at path.
func WatchTable(path string) (*Watcher, error) {
	target := filepath.Clean(path)
	return newWatcher(func(p string) bool {
		return filepath.Clean(p) == target
	}, filepath.Dir(target))
}

func newWatcher(match func(string) bool, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		match:   match,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes Events and Errors. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	pending := map[string]struct{}{}
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.match(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(watchDebounce)
		case <-timer.C:
			for _, path := range slices.Sorted(maps.Keys(pending)) {
				delete(pending, path)
				table, err := LoadTable(path)
				select {
				case w.Events <- Change{Path: path, Table: table, Err: err}:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isAssetFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
