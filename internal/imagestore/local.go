package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps images in a directory served by the site under /images
type LocalStore struct {
	dir     string
	siteURL string
}

// NewLocalStore creates a LocalStore rooted at dir
func NewLocalStore(dir, siteURL string) *LocalStore {
	return &LocalStore{dir: dir, siteURL: strings.TrimRight(siteURL, "/")}
}

func (s *LocalStore) path(day time.Time) string {
	return filepath.Join(s.dir, FileName(day))
}

// Save writes the file through a temporary name so readers never see a
// partial image
func (s *LocalStore) Save(_ context.Context, day time.Time, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("failed to chmod image: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(day)); err != nil {
		return "", fmt.Errorf("failed to move image into place: %w", err)
	}

	return s.URL(day), nil
}

// Exists reports whether the day's image file is present
func (s *LocalStore) Exists(_ context.Context, day time.Time) (bool, error) {
	_, err := os.Stat(s.path(day))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat image: %w", err)
}

// URL returns {site}/images/<date>.jpg
func (s *LocalStore) URL(day time.Time) string {
	return s.siteURL + "/images/" + FileName(day)
}
