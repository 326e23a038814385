package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one half of a turn. Messages are immutable once created;
// ArtifactId is set when the turn carried or referenced an uploaded file.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	ArtifactId    *uuid.UUID
	SenderType    string
	Content       string
	CreatedAt     time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
