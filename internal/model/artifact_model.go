package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Artifact struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	OriginalFilename string         `gorm:"type:text;not null"`
	StorageKey       string         `gorm:"type:text;not null;uniqueIndex"`
	Status           string         `gorm:"type:varchar(20);not null;index"`
	Meta             datatypes.JSON `gorm:"type:jsonb"` // content_type, size
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Artifact) TableName() string {
	return "artifacts"
}
