package implementation

import (
	"context"

	"tuddy-chat-be/internal/constant"
	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/mapper"
	"tuddy-chat-be/internal/model"
	"tuddy-chat-be/internal/repository/contract"
	"tuddy-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db             *gorm.DB
	mapper         *mapper.ChatMapper
	artifactMapper *mapper.ArtifactMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:             db,
		mapper:         mapper.NewChatMapper(),
		artifactMapper: mapper.NewArtifactMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ChatMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatMessageToEntity(m)
	}
	return entities, nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindContextArtifacts joins messages to artifacts and returns the distinct
// COMPLETED set for the session, oldest first so the ordering is stable
// across turns. Soft-deleted rows on either side are excluded explicitly
// because the join bypasses GORM's default scope.
func (r *ChatMessageRepositoryImpl) FindContextArtifacts(ctx context.Context, sessionId uuid.UUID) ([]*entity.Artifact, error) {
	var models []*model.Artifact
	err := r.db.WithContext(ctx).
		Table("artifacts AS a").
		Select("DISTINCT a.*").
		Joins("JOIN chat_messages m ON m.artifact_id = a.id").
		Where("m.chat_session_id = ?", sessionId).
		Where("a.status = ?", constant.ArtifactStatusCompleted).
		Where("a.deleted_at IS NULL").
		Where("m.deleted_at IS NULL").
		Order("a.created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.artifactMapper.ToEntities(models), nil
}
