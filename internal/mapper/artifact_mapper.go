package mapper

import (
	"encoding/json"
	"time"

	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArtifactMapper struct{}

func NewArtifactMapper() *ArtifactMapper {
	return &ArtifactMapper{}
}

type artifactMeta struct {
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

func (m *ArtifactMapper) ToEntity(a *model.Artifact) *entity.Artifact {
	if a == nil {
		return nil
	}

	var deletedAt *time.Time
	if a.DeletedAt.Valid {
		t := a.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	var meta artifactMeta
	if len(a.Meta) > 0 {
		// Malformed meta is not fatal, the fields just stay zero.
		_ = json.Unmarshal(a.Meta, &meta)
	}

	return &entity.Artifact{
		Id:               a.Id,
		UserId:           a.UserId,
		OriginalFilename: a.OriginalFilename,
		StorageKey:       a.StorageKey,
		Status:           a.Status,
		ContentType:      meta.ContentType,
		Size:             meta.Size,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        a.DeletedAt.Valid,
	}
}

func (m *ArtifactMapper) ToModel(a *entity.Artifact) *model.Artifact {
	if a == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if a.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	} else if a.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	metaJSON, _ := json.Marshal(artifactMeta{
		ContentType: a.ContentType,
		Size:        a.Size,
	})

	return &model.Artifact{
		Id:               a.Id,
		UserId:           a.UserId,
		OriginalFilename: a.OriginalFilename,
		StorageKey:       a.StorageKey,
		Status:           a.Status,
		Meta:             datatypes.JSON(metaJSON),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *ArtifactMapper) ToEntities(models []*model.Artifact) []*entity.Artifact {
	entities := make([]*entity.Artifact, len(models))
	for i, a := range models {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
