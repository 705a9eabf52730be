// ABOUTME: Change notification for workspace mutations, enabling real-time observation by browser tabs.
// ABOUTME: Provides Emitter with subscribe/emit/unsubscribe pattern and typed Change delivery.

package workspace

import (
	"sync"
	"time"
)

// ChangeKind discriminates the type of workspace change.
type ChangeKind string

const (
	ChangeFileCreated ChangeKind = "file_created"
	ChangeFileUpdated ChangeKind = "file_updated"
	ChangeFileRenamed ChangeKind = "file_renamed"
	ChangeFileDeleted ChangeKind = "file_deleted"
	ChangeReset       ChangeKind = "workspace_reset"
	ChangeRestored    ChangeKind = "workspace_restored"
)

// Change represents a typed event emitted after a store mutation.
type Change struct {
	Kind      ChangeKind `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`
	Name      string     `json:"name,omitempty"`
	OldName   string     `json:"old_name,omitempty"`
}

// Emitter delivers workspace changes to subscribed channels.
type Emitter struct {
	mu          sync.RWMutex
	subscribers []chan Change
	closed      bool
}

// NewEmitter creates a new Emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		subscribers: make([]chan Change, 0),
	}
}

// Subscribe registers a new subscriber channel and returns it.
// The channel has a buffer of 64 to reduce the likelihood of blocking.
func (e *Emitter) Subscribe() <-chan Change {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan Change, 64)
	e.subscribers = append(e.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (e *Emitter) Unsubscribe(ch <-chan Change) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, sub := range e.subscribers {
		// Cast the bidirectional channel to receive-only for comparison
		if (<-chan Change)(sub) == ch {
			close(sub)
			e.subscribers = append(e.subscribers[:i], e.subscribers[i+1:]...)
			return
		}
	}
}

// Emit sends a change to all subscribers. Non-blocking: if a subscriber's
// channel buffer is full, the change is dropped for that subscriber.
func (e *Emitter) Emit(change Change) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return
	}

	for _, ch := range e.subscribers {
		select {
		case ch <- change:
		default:
			// Drop event for slow subscribers rather than blocking
		}
	}
}

// Close closes the emitter and all subscriber channels.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	for _, ch := range e.subscribers {
		close(ch)
	}
	e.subscribers = nil
}
