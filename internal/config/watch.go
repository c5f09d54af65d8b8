package config

import (
	"os"
	"time"
)

// Watcher polls a file's modification time and calls onChange after it changes.
type Watcher struct {
	Path     string
	Interval time.Duration
	onChange func(string)
	stopCh   chan struct{}
	last     time.Time
	seen     bool
}

// NewWatcher creates a watcher for path; interval <= 0 means one second.
func NewWatcher(path string, interval time.Duration, onChange func(string)) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		Path:     path,
		Interval: interval,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
}

// Start begins polling in a goroutine.
func (w *Watcher) Start() {
	ticker := time.NewTicker(w.Interval)
	w.scan(true)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if w.scan(false) && w.onChange != nil {
					w.onChange(w.Path)
				}
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
}

// scan records the current mtime and reports whether the file changed since
// the previous scan. A file that first appears after priming counts as changed.
func (w *Watcher) scan(prime bool) bool {
	fi, err := os.Stat(w.Path)
	if err != nil {
		return false
	}
	mt := fi.ModTime()
	if !w.seen {
		w.last, w.seen = mt, true
		return !prime
	}
	if mt.After(w.last) {
		w.last = mt
		return true
	}
	return false
}
