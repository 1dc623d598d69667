package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalPhotoStore writes photos under a directory on the local filesystem.
type LocalPhotoStore struct {
	dir string
}

// NewLocalPhotoStore creates dir if needed.
func NewLocalPhotoStore(dir string) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalPhotoStore{dir: dir}, nil
}

func (s *LocalPhotoStore) Save(_ context.Context, name string, src io.Reader) (string, error) {
	photoPath := joinRelative(s.dir, name)
	dst, err := os.OpenFile(filepath.FromSlash(photoPath), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}
	return photoPath, nil
}

func (s *LocalPhotoStore) Remove(_ context.Context, photoPath string) error {
	err := os.Remove(filepath.FromSlash(photoPath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove photo file: %w", err)
	}
	return nil
}
