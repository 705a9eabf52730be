// ABOUTME: Server-sent event formatting for the workspace change stream.
// ABOUTME: Converts workspace changes into wire-format SSE frames for relay to browser tabs.
package web

import (
	"encoding/json"
	"fmt"

	"github.com/2389-research/sketchpad/workspace"
)

// SSEEvent represents a server-sent event ready for transmission.
type SSEEvent struct {
	Event string
	Data  string
}

// Format renders the SSEEvent in the wire format expected by EventSource:
// "event: <type>\ndata: <data>\n\n".
func (e SSEEvent) Format() string {
	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Event, e.Data)
}

// changeToSSE converts a workspace change into an SSEEvent for streaming.
func changeToSSE(change workspace.Change) SSEEvent {
	data, err := json.Marshal(change)
	if err != nil {
		data = []byte(`{"error":"failed to marshal change"}`)
	}
	return SSEEvent{Event: string(change.Kind), Data: string(data)}
}
