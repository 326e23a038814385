package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the contract for everything put on the event bus.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation used by the constructors below.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewChatTurnCompleted fires after a turn's bot reply was persisted.
func NewChatTurnCompleted(userId, sessionId uuid.UUID, mode string) Event {
	return BaseEvent{
		Type: "CHAT_TURN_COMPLETED",
		Data: map[string]interface{}{
			"user_id":    userId.String(),
			"session_id": sessionId.String(),
			"mode":       mode,
		},
		OccurredAt: time.Now(),
	}
}

// NewArtifactIndexed fires when ingestion reaches a terminal status.
func NewArtifactIndexed(userId, artifactId uuid.UUID, status string) Event {
	return BaseEvent{
		Type: "ARTIFACT_INDEXED",
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"artifact_id": artifactId.String(),
			"status":      status,
		},
		OccurredAt: time.Now(),
	}
}
