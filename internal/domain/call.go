package domain

import "time"

// Destination is a normalized, dialable phone identifier in international
// format ("+" followed by digits only).
type Destination string

// String returns the raw dial string.
func (d Destination) String() string { return string(d) }

// SessionState enumerates conversation stages of an answered call.
type SessionState string

const (
	SessionStateIntro      SessionState = "intro"
	SessionStateListening  SessionState = "listening"
	SessionStateResponding SessionState = "responding"
	SessionStateEnded      SessionState = "ended"
)

// CallEventType enumerates dispatch lifecycle events.
type CallEventType string

const (
	CallEventDispatched      CallEventType = "dispatched"
	CallEventPlacementFailed CallEventType = "placement_failed"
	CallEventCompleted       CallEventType = "completed"
)

// CallEvent records one dispatch lifecycle transition for observability.
type CallEvent struct {
	CallID      string        `json:"call_id,omitempty"`
	Destination Destination   `json:"destination"`
	Type        CallEventType `json:"type"`
	Error       string        `json:"error,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
}
