// ABOUTME: Tests for the workspace change emitter.
// ABOUTME: Covers subscribe/emit/unsubscribe/close and the non-blocking drop behavior.

package workspace

import (
	"testing"
	"time"
)

func TestEmitterDeliversChanges(t *testing.T) {
	emitter := NewEmitter()
	defer emitter.Close()

	ch := emitter.Subscribe()

	change := Change{
		Kind:      ChangeFileCreated,
		Timestamp: time.Now(),
		Name:      "notes.txt",
	}

	emitter.Emit(change)

	select {
	case received := <-ch:
		if received.Kind != ChangeFileCreated {
			t.Errorf("expected kind %s, got %s", ChangeFileCreated, received.Kind)
		}
		if received.Name != "notes.txt" {
			t.Errorf("expected name notes.txt, got %s", received.Name)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestEmitterMultipleSubscribers(t *testing.T) {
	emitter := NewEmitter()
	defer emitter.Close()

	ch1 := emitter.Subscribe()
	ch2 := emitter.Subscribe()

	emitter.Emit(Change{Kind: ChangeReset, Timestamp: time.Now()})

	for i, ch := range []<-chan Change{ch1, ch2} {
		select {
		case received := <-ch:
			if received.Kind != ChangeReset {
				t.Errorf("subscriber %d: expected kind %s, got %s", i, ChangeReset, received.Kind)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timed out waiting for change", i)
		}
	}
}

func TestEmitterUnsubscribeClosesChannel(t *testing.T) {
	emitter := NewEmitter()
	defer emitter.Close()

	ch := emitter.Subscribe()
	emitter.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatal("expected unsubscribed channel to be closed")
	}

	// Emitting after unsubscribe must not panic.
	emitter.Emit(Change{Kind: ChangeFileDeleted, Timestamp: time.Now()})
}

func TestEmitterDropsWhenBufferFull(t *testing.T) {
	emitter := NewEmitter()
	defer emitter.Close()

	ch := emitter.Subscribe()

	// Fill the buffer and then some; the overflow must be dropped, not block.
	for i := 0; i < 100; i++ {
		emitter.Emit(Change{Kind: ChangeFileUpdated, Timestamp: time.Now()})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			if received == 0 || received > 64 {
				t.Fatalf("expected between 1 and 64 buffered changes, got %d", received)
			}
			return
		}
	}
}

func TestEmitterCloseIsIdempotent(t *testing.T) {
	emitter := NewEmitter()
	ch := emitter.Subscribe()

	emitter.Close()
	emitter.Close()

	if _, ok := <-ch; ok {
		t.Fatal("expected subscriber channel closed after Close")
	}

	// Emit on a closed emitter is a no-op.
	emitter.Emit(Change{Kind: ChangeFileCreated, Timestamp: time.Now()})
}
