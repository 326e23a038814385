package contract

import (
	"context"

	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindContextArtifacts returns the distinct COMPLETED artifacts referenced
	// by any message of the session. This is the session's sticky context set.
	FindContextArtifacts(ctx context.Context, sessionId uuid.UUID) ([]*entity.Artifact, error)
}
