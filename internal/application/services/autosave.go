package services

import (
	"context"
	"sync"
	"time"
)

// saveFunc persists one snapshot of a document's content.
type saveFunc func(ctx context.Context, content string) error

// autosaver debounces writes for a single document. Every Update restarts the
// countdown, so only the last snapshot of a burst of keystrokes reaches the
// store. The state machine is clean -> dirty -> saving; content arriving while
// a save is in flight re-dirties the document and schedules another pass.
type autosaver struct {
	mu       sync.Mutex
	debounce time.Duration
	save     saveFunc

	// saveMu serializes the actual writes so a countdown firing during a
	// manual flush cannot interleave two snapshots out of order.
	saveMu sync.Mutex

	timer   *time.Timer
	dirty   bool
	saving  int
	pending string
	closed  bool
}

func newAutosaver(debounce time.Duration, save saveFunc) *autosaver {
	return &autosaver{
		debounce: debounce,
		save:     save,
	}
}

// Update records new content and restarts the debounce countdown.
func (a *autosaver) Update(content string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	a.pending = content
	a.dirty = true

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.fire)
}

// Flush persists the latest content immediately, cancelling any countdown.
// It is a no-op when the document is clean.
func (a *autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.closed || !a.dirty {
		a.mu.Unlock()
		return nil
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	content := a.pending
	a.dirty = false
	a.saving++
	a.mu.Unlock()

	a.saveMu.Lock()
	err := a.save(ctx, content)
	a.saveMu.Unlock()

	a.mu.Lock()
	a.saving--
	if err != nil {
		// The snapshot never landed. Mark it dirty again so the next
		// countdown or flush retries.
		a.dirty = true
	} else if a.dirty {
		// New content arrived during the write. Stop whatever countdown that
		// update armed before installing a fresh one, so only a single timer
		// stays live.
		if a.timer != nil {
			a.timer.Stop()
		}
		a.timer = time.AfterFunc(a.debounce, a.fire)
	}
	a.mu.Unlock()

	return err
}

// fire runs when the countdown elapses.
func (a *autosaver) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = a.Flush(ctx)
}

// Dirty reports whether content is waiting to be persisted.
func (a *autosaver) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty || a.saving > 0
}

// Close cancels any countdown without persisting.
func (a *autosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
