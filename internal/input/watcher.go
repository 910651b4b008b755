package input

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed reports that the key event stream ended.
var ErrClosed = errors.New("input stream closed")

const pressBuffer = 16

// Watcher filters key events down to presses of a single key and hands
// their timestamps to the judge. Offer never blocks the event source.
type Watcher struct {
	match Key

	mu      sync.Mutex
	presses chan time.Time
	closed  bool
	cause   error
}

// NewWatcher returns a watcher that passes through presses of key.
func NewWatcher(key Key) *Watcher {
	return &Watcher{
		match:   key,
		presses: make(chan time.Time, pressBuffer),
	}
}

// Key returns the key the watcher passes through.
func (w *Watcher) Key() Key { return w.match }

// Offer records a key press observed at the given time. Presses of
// other keys are ignored, and a press is dropped when the buffer is
// full or the watcher is closed. It reports whether the press was
// enqueued.
func (w *Watcher) Offer(key Key, at time.Time) bool {
	if key != w.match {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	select {
	case w.presses <- at:
		return true
	default:
		return false
	}
}

// Presses returns the stream of matching press timestamps. The channel
// closes when the watcher closes.
func (w *Watcher) Presses() <-chan time.Time {
	return w.presses
}

// Close ends the stream, recording an optional cause for Err.
func (w *Watcher) Close(cause error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.cause = cause
	close(w.presses)
}

// Err returns nil while the watcher is open, the close cause after
// Close, or ErrClosed when it was closed without one.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		return nil
	}
	if w.cause != nil {
		return w.cause
	}
	return ErrClosed
}
