package entity

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is an uploaded file tracked through the indexing lifecycle.
// Status is one of the constant.ArtifactStatus* values.
type Artifact struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	OriginalFilename string
	StorageKey       string
	Status           string
	ContentType      string
	Size             int64
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
