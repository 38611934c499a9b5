package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores blobs under a directory on the local filesystem. Writes go
// through a temp file and a rename so a partial upload never lands under its
// final name.
type Local struct {
	baseDir string
}

func NewLocal(baseDir string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating uploads directory: %w", err)
	}
	return &Local{baseDir: baseDir}, nil
}

func (l *Local) Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	tempFile, err := os.CreateTemp(l.baseDir, ".incoming-*")
	if err != nil {
		return "", fmt.Errorf("error preparing upload file: %w", err)
	}

	tempPath := tempFile.Name()
	defer func() {
		if tempPath != "" {
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := io.Copy(tempFile, r); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("error writing upload file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("error finalizing upload file: %w", err)
	}

	finalPath := filepath.Join(l.baseDir, filename)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return "", fmt.Errorf("error moving upload file: %w", err)
	}
	tempPath = ""

	if err := os.Chmod(finalPath, 0o644); err != nil {
		_ = os.Remove(finalPath)
		return "", fmt.Errorf("error setting upload file permissions: %w", err)
	}

	return finalPath, nil
}

func (l *Local) Remove(ctx context.Context, location string) error {
	if err := os.Remove(location); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing blob %s: %w", location, err)
	}
	return nil
}

func (l *Local) Redirectable() bool {
	return false
}
