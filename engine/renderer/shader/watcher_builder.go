package shader

import "time"

// WatcherBuilderOption is a functional option applied to a watcher during construction via NewWatcher.
type WatcherBuilderOption func(*watcherImpl)

// WithDebounce sets how long a file must stay quiet before its change is reported.
//
// Parameters:
//   - d: the debounce window, ignored if not positive
//
// Returns:
//   - WatcherBuilderOption: a function that sets the debounce window
func WithDebounce(d time.Duration) WatcherBuilderOption {
	return func(w *watcherImpl) {
		if d > 0 {
			w.debounce = d
		}
	}
}
