package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"files-manager/internal/config"

	"github.com/google/uuid"
)

// BlobStorage persists upload payloads and returns where they landed.
type BlobStorage interface {
	Write(ctx context.Context, data []byte) (string, error)
	Remove(path string) error
}

type DiskStorage struct {
	Root string
}

func NewDiskStorage(cfg *config.Config) BlobStorage {
	return &DiskStorage{Root: cfg.FolderPath}
}

// Write stores data under a fresh uuid name. The root is created on demand;
// MkdirAll on an existing directory is a no-op, so concurrent writers are fine.
func (d *DiskStorage) Write(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return "", fmt.Errorf("create storage root: %w", err)
	}

	path := filepath.Join(d.Root, uuid.NewString())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (d *DiskStorage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
