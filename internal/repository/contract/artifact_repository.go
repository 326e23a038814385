package contract

import (
	"context"

	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ArtifactRepository interface {
	Create(ctx context.Context, artifact *entity.Artifact) error
	Update(ctx context.Context, artifact *entity.Artifact) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Artifact, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Artifact, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
