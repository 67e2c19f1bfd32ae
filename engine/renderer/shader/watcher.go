package shader

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type watcherImpl struct {
	mu *sync.Mutex

	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	timers   map[string]*time.Timer
	debounce time.Duration
	changes  chan string
	done     chan struct{}
	closed   bool
}

// Watcher reports edits to shader source files so pipelines can be rebuilt while the
// program runs. The parent directory of each file is watched, so editors that save by
// replacing the file are still seen. Bursts of events for one file within the debounce
// window collapse into a single change.
type Watcher interface {
	// Watch adds files to the watch set.
	//
	// Parameters:
	//   - paths: shader source files
	//
	// Returns:
	//   - error: an error if a parent directory cannot be watched
	Watch(paths ...string) error

	// Changes returns the channel receiving the cleaned path of each changed file.
	//
	// Returns:
	//   - <-chan string: changed file paths
	Changes() <-chan string

	// Close stops watching and releases the underlying watcher. Safe to call more than once.
	//
	// Returns:
	//   - error: the close error of the underlying watcher
	Close() error
}

var _ Watcher = &watcherImpl{}

// NewWatcher creates a Watcher with a 100ms debounce window.
//
// Parameters:
//   - options: WithDebounce
//
// Returns:
//   - Watcher: the running watcher
//   - error: an error if the OS watcher cannot be created
func NewWatcher(options ...WatcherBuilderOption) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create shader watcher: %w", err)
	}
	w := &watcherImpl{
		mu:       &sync.Mutex{},
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		timers:   make(map[string]*time.Timer),
		debounce: 100 * time.Millisecond,
		changes:  make(chan string, 16),
		done:     make(chan struct{}),
	}
	for _, option := range options {
		option(w)
	}
	go w.run()
	return w, nil
}

func (w *watcherImpl) Watch(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", p, err)
		}
		dir := filepath.Dir(abs)
		if !w.dirs[dir] {
			if err := w.fsw.Add(dir); err != nil {
				return fmt.Errorf("watch %q: %w", dir, err)
			}
			w.dirs[dir] = true
		}
		w.files[abs] = true
	}
	return nil
}

func (w *watcherImpl) Changes() <-chan string {
	return w.changes
}

func (w *watcherImpl) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	close(w.done)
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *watcherImpl) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.schedule(filepath.Clean(event.Name))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[Shader] watcher error: %v", err)
		}
	}
}

// schedule (re)starts the debounce timer for path if it is watched.
func (w *watcherImpl) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		select {
		case w.changes <- path:
		default:
			log.Printf("[Shader] change queue full, dropping %s", path)
		}
	})
}
