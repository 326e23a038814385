package resolver

import (
	"context"
	"testing"

	"tuddy-chat-be/internal/constant"
	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMessageRepo struct {
	contract.ChatMessageRepository
	artifacts []*entity.Artifact
}

func (r *stubMessageRepo) FindContextArtifacts(ctx context.Context, sessionId uuid.UUID) ([]*entity.Artifact, error) {
	return r.artifacts, nil
}

type stubUow struct {
	messages *stubMessageRepo
}

func (u *stubUow) Begin(ctx context.Context) error { return nil }
func (u *stubUow) Commit() error                   { return nil }
func (u *stubUow) Rollback() error                 { return nil }

func (u *stubUow) UserRepository() contract.UserRepository               { return nil }
func (u *stubUow) ChatSessionRepository() contract.ChatSessionRepository { return nil }
func (u *stubUow) ChatMessageRepository() contract.ChatMessageRepository { return u.messages }
func (u *stubUow) ArtifactRepository() contract.ArtifactRepository       { return nil }

func TestResolveAppendsCompletedAttachment(t *testing.T) {
	existing := &entity.Artifact{Id: uuid.New(), OriginalFilename: "old.pdf", Status: constant.ArtifactStatusCompleted}
	attached := &entity.Artifact{Id: uuid.New(), OriginalFilename: "new.pdf", Status: constant.ArtifactStatusCompleted}
	uow := &stubUow{messages: &stubMessageRepo{artifacts: []*entity.Artifact{existing}}}

	set, err := New().Resolve(context.Background(), uow, uuid.New(), attached)

	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf", "new.pdf"}, FileNames(set))
}

func TestResolveSkipsFailedAttachment(t *testing.T) {
	attached := &entity.Artifact{Id: uuid.New(), OriginalFilename: "broken.pdf", Status: constant.ArtifactStatusFailed}
	uow := &stubUow{messages: &stubMessageRepo{}}

	set, err := New().Resolve(context.Background(), uow, uuid.New(), attached)

	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestResolveDeduplicatesAttachment(t *testing.T) {
	artifact := &entity.Artifact{Id: uuid.New(), OriginalFilename: "same.pdf", Status: constant.ArtifactStatusCompleted}
	uow := &stubUow{messages: &stubMessageRepo{artifacts: []*entity.Artifact{artifact}}}

	set, err := New().Resolve(context.Background(), uow, uuid.New(), artifact)

	require.NoError(t, err)
	assert.Len(t, set, 1)
}

func TestResolveWithoutAttachment(t *testing.T) {
	uow := &stubUow{messages: &stubMessageRepo{}}

	set, err := New().Resolve(context.Background(), uow, uuid.New(), nil)

	require.NoError(t, err)
	assert.Empty(t, set)
}
