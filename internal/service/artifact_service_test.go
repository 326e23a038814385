package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tuddy-chat-be/internal/constant"
	"tuddy-chat-be/internal/dto"
	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlobStore struct {
	blobs map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}}
}

func (s *memBlobStore) Save(key string, data []byte) error {
	s.blobs[key] = data
	return nil
}

func (s *memBlobStore) Read(key string) ([]byte, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return data, nil
}

func (s *memBlobStore) Delete(key string) error {
	delete(s.blobs, key)
	return nil
}

type capturingPublisher struct {
	payloads [][]byte
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

func newTestArtifactService(store *fakeStore, blobs *memBlobStore, gen *stubGenerator, pub *capturingPublisher) IArtifactService {
	return NewArtifactService(&fakeFactory{store: store}, blobs, gen, pub, nopLogger{})
}

func TestUploadQueuesIndexing(t *testing.T) {
	store := &fakeStore{}
	blobs := newMemBlobStore()
	pub := &capturingPublisher{}
	svc := newTestArtifactService(store, blobs, &stubGenerator{}, pub)
	userId := uuid.New()

	res, err := svc.Upload(context.Background(), userId, "report.pdf", "application/pdf", []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, constant.ArtifactStatusPending, res.Status)
	assert.Equal(t, "report.pdf", res.OriginalFilename)

	require.Len(t, store.artifacts, 1)
	assert.Equal(t, userId, store.artifacts[0].UserId)
	assert.Len(t, blobs.blobs, 1)

	require.Len(t, pub.payloads, 1)
	var msg dto.PublishIndexArtifactMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, res.Id, msg.ArtifactId)
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := newTestArtifactService(&fakeStore{}, newMemBlobStore(), &stubGenerator{}, &capturingPublisher{})

	_, err := svc.Upload(context.Background(), uuid.New(), "empty.pdf", "application/pdf", nil)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestIngestNowCompletes(t *testing.T) {
	store := &fakeStore{}
	svc := newTestArtifactService(store, newMemBlobStore(), &stubGenerator{}, &capturingPublisher{})

	artifact, err := svc.IngestNow(context.Background(), uuid.New(), "notes.txt", "text/plain", []byte("hello"))

	require.NoError(t, err)
	assert.Equal(t, constant.ArtifactStatusCompleted, artifact.Status)
	require.Len(t, store.artifacts, 1)
	assert.Equal(t, constant.ArtifactStatusCompleted, store.artifacts[0].Status)
}

func TestIngestNowMarksFailedWhenIndexingFails(t *testing.T) {
	store := &fakeStore{}
	gen := &stubGenerator{indexErr: errors.New("generator down")}
	svc := newTestArtifactService(store, newMemBlobStore(), gen, &capturingPublisher{})

	artifact, err := svc.IngestNow(context.Background(), uuid.New(), "notes.txt", "text/plain", []byte("hello"))

	// A failed ingestion is not an error; the artifact records the outcome.
	require.NoError(t, err)
	assert.Equal(t, constant.ArtifactStatusFailed, artifact.Status)
}

func TestDeleteRemovesRowAndBlob(t *testing.T) {
	store := &fakeStore{}
	blobs := newMemBlobStore()
	svc := newTestArtifactService(store, blobs, &stubGenerator{}, &capturingPublisher{})
	userId := uuid.New()

	res, err := svc.Upload(context.Background(), userId, "report.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userId, res.Id))

	assert.True(t, store.artifacts[0].IsDeleted)
	assert.Empty(t, blobs.blobs)
}

func TestDeleteDeniedForForeignArtifact(t *testing.T) {
	store := &fakeStore{}
	owner := uuid.New()
	store.artifacts = append(store.artifacts, &entity.Artifact{
		Id: uuid.New(), UserId: owner, Status: constant.ArtifactStatusCompleted,
	})
	svc := newTestArtifactService(store, newMemBlobStore(), &stubGenerator{}, &capturingPublisher{})

	err := svc.Delete(context.Background(), uuid.New(), store.artifacts[0].Id)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestGetMyArtifactsScopedToOwner(t *testing.T) {
	store := &fakeStore{}
	alice := uuid.New()
	bob := uuid.New()
	store.artifacts = append(store.artifacts,
		&entity.Artifact{Id: uuid.New(), UserId: alice, OriginalFilename: "mine.pdf", Status: constant.ArtifactStatusCompleted},
		&entity.Artifact{Id: uuid.New(), UserId: bob, OriginalFilename: "theirs.pdf", Status: constant.ArtifactStatusPending},
	)
	svc := newTestArtifactService(store, newMemBlobStore(), &stubGenerator{}, &capturingPublisher{})

	res, err := svc.GetMyArtifacts(context.Background(), alice, "")

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "mine.pdf", res[0].OriginalFilename)
}

func TestGetMyArtifactsFiltersByStatus(t *testing.T) {
	store := &fakeStore{}
	userId := uuid.New()
	store.artifacts = append(store.artifacts,
		&entity.Artifact{Id: uuid.New(), UserId: userId, OriginalFilename: "done.pdf", Status: constant.ArtifactStatusCompleted},
		&entity.Artifact{Id: uuid.New(), UserId: userId, OriginalFilename: "waiting.pdf", Status: constant.ArtifactStatusPending},
	)
	svc := newTestArtifactService(store, newMemBlobStore(), &stubGenerator{}, &capturingPublisher{})

	res, err := svc.GetMyArtifacts(context.Background(), userId, constant.ArtifactStatusCompleted)

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "done.pdf", res[0].OriginalFilename)
}
