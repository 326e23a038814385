package unitofwork

import (
	"context"

	"tuddy-chat-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one short-lived transaction.
// The orchestrator opens a fresh unit for each of its writes so that no
// connection is held across the upstream generator call.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ArtifactRepository() contract.ArtifactRepository
}
