package dto

import (
	"time"

	"github.com/google/uuid"
)

type ArtifactResponse struct {
	Id               uuid.UUID  `json:"id"`
	OriginalFilename string     `json:"original_filename"`
	Status           string     `json:"status"`
	ContentType      string     `json:"content_type"`
	Size             int64      `json:"size"`
	CreatedAt        *time.Time `json:"created_at"`
}

type UploadArtifactResponse struct {
	Id               uuid.UUID `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	Status           string    `json:"status"`
}

// PublishIndexArtifactMessage is the payload carried on the ingest topic.
type PublishIndexArtifactMessage struct {
	ArtifactId uuid.UUID `json:"artifact_id"`
}
