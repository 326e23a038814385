package service

import (
	"context"
	"encoding/json"
	"time"

	"tuddy-chat-be/internal/constant"
	"tuddy-chat-be/internal/dto"
	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/pkg/apperror"
	"tuddy-chat-be/internal/pkg/logger"
	"tuddy-chat-be/internal/repository/specification"
	"tuddy-chat-be/internal/repository/unitofwork"
	"tuddy-chat-be/pkg/generator"
	"tuddy-chat-be/pkg/storage"

	"github.com/google/uuid"
)

type IArtifactService interface {
	Upload(ctx context.Context, userId uuid.UUID, filename string, contentType string, data []byte) (*dto.UploadArtifactResponse, error)
	IngestNow(ctx context.Context, userId uuid.UUID, filename string, contentType string, data []byte) (*entity.Artifact, error)
	GetMyArtifacts(ctx context.Context, userId uuid.UUID, status string) ([]*dto.ArtifactResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, artifactId uuid.UUID) error
}

type artifactService struct {
	uowFactory       unitofwork.RepositoryFactory
	store            storage.IStore
	generatorClient  generator.IClient
	publisherService IPublisherService
	log              logger.ILogger
}

func NewArtifactService(
	uowFactory unitofwork.RepositoryFactory,
	store storage.IStore,
	generatorClient generator.IClient,
	publisherService IPublisherService,
	log logger.ILogger,
) IArtifactService {
	return &artifactService{
		uowFactory:       uowFactory,
		store:            store,
		generatorClient:  generatorClient,
		publisherService: publisherService,
		log:              log,
	}
}

// Upload stores the blob, records a PENDING artifact and queues indexing.
// The caller gets an immediate response while indexing runs in the consumer.
func (s *artifactService) Upload(ctx context.Context, userId uuid.UUID, filename string, contentType string, data []byte) (*dto.UploadArtifactResponse, error) {
	if filename == "" {
		return nil, apperror.Validation("filename is required")
	}
	if len(data) == 0 {
		return nil, apperror.Validation("file is empty")
	}

	artifact, err := s.createPending(ctx, userId, filename, contentType, data)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishIndexArtifactMessage{ArtifactId: artifact.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Error("artifact", "Failed to queue indexing", map[string]interface{}{
			"artifact_id": artifact.Id.String(),
			"error":       err.Error(),
		})
		return nil, err
	}

	return &dto.UploadArtifactResponse{
		Id:               artifact.Id,
		OriginalFilename: artifact.OriginalFilename,
		Status:           artifact.Status,
	}, nil
}

// IngestNow stores and indexes an attachment synchronously. Chat turns carry
// their file inline and need the terminal status before routing, so this
// path cannot go through the queue.
func (s *artifactService) IngestNow(ctx context.Context, userId uuid.UUID, filename string, contentType string, data []byte) (*entity.Artifact, error) {
	if filename == "" {
		return nil, apperror.Validation("filename is required")
	}
	if len(data) == 0 {
		return nil, apperror.Validation("file is empty")
	}

	artifact, err := s.createPending(ctx, userId, filename, contentType, data)
	if err != nil {
		return nil, err
	}

	if err := s.markStatus(ctx, artifact, constant.ArtifactStatusProcessing); err != nil {
		return nil, err
	}

	finalStatus := constant.ArtifactStatusCompleted
	if err := s.generatorClient.SubmitIndexing(ctx, userId.String(), artifact.StorageKey); err != nil {
		s.log.Error("artifact", "Synchronous indexing failed", map[string]interface{}{
			"artifact_id": artifact.Id.String(),
			"error":       err.Error(),
		})
		finalStatus = constant.ArtifactStatusFailed
	}

	if err := s.markStatus(ctx, artifact, finalStatus); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *artifactService) createPending(ctx context.Context, userId uuid.UUID, filename string, contentType string, data []byte) (*entity.Artifact, error) {
	key := storage.BuildKey(userId, filename)
	if err := s.store.Save(key, data); err != nil {
		return nil, err
	}

	artifact := &entity.Artifact{
		Id:               uuid.New(),
		UserId:           userId,
		OriginalFilename: filename,
		StorageKey:       key,
		Status:           constant.ArtifactStatusPending,
		ContentType:      contentType,
		Size:             int64(len(data)),
		CreatedAt:        time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ArtifactRepository().Create(ctx, artifact); err != nil {
		// Keep storage consistent with the DB; the blob is orphaned otherwise.
		if delErr := s.store.Delete(key); delErr != nil {
			s.log.Warn("artifact", "Failed to remove orphaned blob", map[string]interface{}{"key": key})
		}
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *artifactService) markStatus(ctx context.Context, artifact *entity.Artifact, status string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	artifact.Status = status
	artifact.UpdatedAt = &now
	if err := uow.ArtifactRepository().Update(ctx, artifact); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *artifactService) GetMyArtifacts(ctx context.Context, userId uuid.UUID, status string) ([]*dto.ArtifactResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}

	artifacts, err := uow.ArtifactRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ArtifactResponse, 0, len(artifacts))
	for _, artifact := range artifacts {
		createdAt := artifact.CreatedAt
		responses = append(responses, &dto.ArtifactResponse{
			Id:               artifact.Id,
			OriginalFilename: artifact.OriginalFilename,
			Status:           artifact.Status,
			ContentType:      artifact.ContentType,
			Size:             artifact.Size,
			CreatedAt:        &createdAt,
		})
	}
	return responses, nil
}

func (s *artifactService) Delete(ctx context.Context, userId uuid.UUID, artifactId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	artifact, err := uow.ArtifactRepository().FindOne(ctx,
		specification.ByID{ID: artifactId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if artifact == nil {
		return apperror.AccessDenied()
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ArtifactRepository().Delete(ctx, artifact.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if err := s.store.Delete(artifact.StorageKey); err != nil {
		s.log.Warn("artifact", "Failed to delete blob after row removal", map[string]interface{}{
			"key":   artifact.StorageKey,
			"error": err.Error(),
		})
	}
	return nil
}
