package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	SessionId *uuid.UUID `json:"session_id" form:"session_id"`
	Query     string     `json:"query" form:"query" validate:"required"`
	// FileId references an already-uploaded artifact to attach to this turn.
	FileId *uuid.UUID `json:"file_id" form:"file_id"`
}

type SendChatResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	Mode      string    `json:"mode"`
	Answer    string    `json:"answer"`
}

type ChatSessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ChatMessageResponse struct {
	Id         uuid.UUID  `json:"id"`
	SenderType string     `json:"sender_type"`
	Content    string     `json:"content"`
	ArtifactId *uuid.UUID `json:"artifact_id,omitempty"`
	CreatedAt  *time.Time `json:"created_at"`
}

type ChatMessagePage struct {
	Items   []ChatMessageResponse `json:"items"`
	Page    int                   `json:"page"`
	Size    int                   `json:"size"`
	HasNext bool                  `json:"has_next"`
}
