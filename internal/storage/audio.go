// Package storage persists uploaded audio files on disk. Rows in the
// repository reference files here by path.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AudioStore writes uploaded audio files under a base directory.
type AudioStore struct {
	dir string
}

// NewAudioStore creates the base directory if needed.
func NewAudioStore(dir string) (*AudioStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &AudioStore{dir: dir}, nil
}

// Save writes the uploaded file to disk under a unique name derived from the
// asset ID and returns the stored path.
func (s *AudioStore) Save(id uuid.UUID, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening uploaded file: %w", err)
	}
	defer src.Close()

	dst := filepath.Join(s.dir, id.String()+"-"+filepath.Base(file.Filename))
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return dst, nil
}
