// Package assets uploads and deletes the binary files (videos, thumbnails)
// referenced by opaque locators from the document store.
package assets

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gotube/internal/common"
)

var ErrEmptyLocator = errors.New("asset url is empty")

// Store implements common.AssetStore on top of a BlobBackend. Every backend
// call is bounded by timeout.
type Store struct {
	backend   common.BlobBackend
	durations DurationReader
	timeout   time.Duration
	logger    *zap.Logger
}

func NewStore(backend common.BlobBackend, durations DurationReader, timeout time.Duration, logger *zap.Logger) *Store {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Store{
		backend:   backend,
		durations: durations,
		timeout:   timeout,
		logger:    logger,
	}
}

// Upload sends the local file to the backend. The local file is removed
// whether or not the upload succeeds.
func (s *Store) Upload(ctx context.Context, localPath string, kind common.AssetKind) (*common.UploadedAsset, error) {
	if localPath == "" {
		return nil, errors.New("local file path is empty")
	}
	defer func() {
		if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove temp upload", zap.String("path", localPath), zap.Error(err))
		}
	}()

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}

	var duration float64
	if kind == common.AssetKindVideo && s.durations != nil {
		duration, err = s.durations.MediaDuration(localPath)
		if err != nil {
			s.logger.Warn("could not read video duration", zap.String("path", localPath), zap.Error(err))
			duration = 0
		}
	}

	ext := strings.ToLower(filepath.Ext(localPath))
	name := uuid.NewString() + ext

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url, err := s.backend.Put(ctx, name, kind, contentTypeFor(ext, kind), f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("upload %s asset: %w", kind, err)
	}

	s.logger.Debug("asset uploaded", zap.String("asset_url", url), zap.String("kind", kind.String()))
	return &common.UploadedAsset{URL: url, Kind: kind, Duration: duration}, nil
}

// Delete removes the asset behind url. An absent asset is reported as an error.
func (s *Store) Delete(ctx context.Context, url string, kind common.AssetKind) error {
	if strings.TrimSpace(url) == "" {
		return ErrEmptyLocator
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.backend.Remove(ctx, url, kind); err != nil {
		return fmt.Errorf("delete %s asset: %w", kind, err)
	}
	return nil
}

func contentTypeFor(ext string, kind common.AssetKind) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	if kind == common.AssetKindVideo {
		return "video/mp4"
	}
	return "application/octet-stream"
}
