package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/metrics"
)

const backendLocal = "local"

// LocalStorage writes attachments under dir and serves them from
// <baseURL>/uploads/<name>.
type LocalStorage struct {
	dir     string
	prefix  string
	options Options
	now     func() time.Time
}

// NewLocalStorage creates dir if needed. baseURL is the public API origin.
func NewLocalStorage(dir, baseURL string, options Options) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{
		dir:     dir,
		prefix:  strings.TrimRight(baseURL, "/") + "/uploads/",
		options: options,
		now:     time.Now,
	}, nil
}

// Dir is the directory served under /uploads.
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Store(ctx context.Context, slot domain.FileSlot, upload *domain.Upload) (string, error) {
	file, err := s.options.prepare(slot, upload, s.now())
	if err != nil {
		return "", err
	}

	err = os.WriteFile(filepath.Join(s.dir, file.Name), file.Data, 0o644)
	metrics.StorageOperationsTotal.WithLabelValues(backendLocal, "store", metrics.Result(err)).Inc()
	if err != nil {
		return "", apperror.Upstream("Failed to store file", err)
	}
	return s.prefix + file.Name, nil
}

func (s *LocalStorage) Manages(locator string) bool {
	_, ok := s.fileName(locator)
	return ok
}

func (s *LocalStorage) Delete(ctx context.Context, locator string) error {
	name, ok := s.fileName(locator)
	if !ok {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
	}
	metrics.StorageOperationsTotal.WithLabelValues(backendLocal, "delete", metrics.Result(err)).Inc()
	if err != nil {
		return apperror.Upstream("Failed to delete file", err)
	}
	return nil
}

// fileName extracts a plain file name from a locator this storage issued.
func (s *LocalStorage) fileName(locator string) (string, bool) {
	if !strings.HasPrefix(locator, s.prefix) {
		return "", false
	}
	name := strings.TrimPrefix(locator, s.prefix)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", false
	}
	return name, true
}
