package resolver

import (
	"context"

	"github.com/google/uuid"

	"tuddy-chat-be/internal/constant"
	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/repository/unitofwork"
)

// Resolver computes the retrieval context for a chat turn: every COMPLETED
// artifact ever attached to a message in the session. Context is sticky; once
// an artifact enters a session it stays in scope for all later turns.
type Resolver struct{}

func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the session's context set. justAttached is the artifact
// attached to the turn being processed, if any; it has no message row yet so
// the join cannot see it, and it only joins the set when ingestion completed.
func (r *Resolver) Resolve(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, justAttached *entity.Artifact) ([]*entity.Artifact, error) {
	artifacts, err := uow.ChatMessageRepository().FindContextArtifacts(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	if justAttached != nil && justAttached.Status == constant.ArtifactStatusCompleted {
		present := false
		for _, artifact := range artifacts {
			if artifact.Id == justAttached.Id {
				present = true
				break
			}
		}
		if !present {
			artifacts = append(artifacts, justAttached)
		}
	}
	return artifacts, nil
}

// FileNames projects the context set onto the filename list the generator
// expects.
func FileNames(artifacts []*entity.Artifact) []string {
	names := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		names = append(names, artifact.OriginalFilename)
	}
	return names
}
