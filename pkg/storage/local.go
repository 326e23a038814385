package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// IStore persists raw artifact bytes under storage keys.
type IStore interface {
	Save(key string, data []byte) error
	Read(key string) ([]byte, error)
	Delete(key string) error
}

// LocalStore keeps artifact blobs on the local filesystem under a base
// directory. Keys are relative paths within that directory.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// BuildKey produces the canonical storage key for an upload. The uuid prefix
// keeps same-named uploads from colliding.
func BuildKey(userId uuid.UUID, filename string) string {
	return fmt.Sprintf("raw/%s/%s_%s", userId.String(), uuid.New().String(), filepath.Base(filename))
}

func (s *LocalStore) Save(key string, data []byte) error {
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

func (s *LocalStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

func (s *LocalStore) Delete(key string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
