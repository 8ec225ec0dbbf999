package assets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/config"
	"gotube/internal/dbmongo"
)

// NewBackend picks the blob backend named by cfg.Storage.Driver.
func NewBackend(ctx context.Context, cfg *config.Config, mongoClient *dbmongo.MongoClient) (common.BlobBackend, error) {
	switch cfg.Storage.Driver {
	case "", "gridfs":
		return dbmongo.NewMediaStorage(mongoClient, cfg.Storage.MediaBaseURL), nil
	case "minio":
		return NewMinioBackend(ctx, cfg.Storage)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewAssetStore builds the configured asset store with ffmpeg duration lookup.
func NewAssetStore(cfg *config.Config, mongoClient *dbmongo.MongoClient, logger *zap.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StorageTimeout())
	defer cancel()

	backend, err := NewBackend(ctx, cfg, mongoClient)
	if err != nil {
		return nil, err
	}
	logger.Info("asset store ready", zap.String("driver", cfg.Storage.Driver))
	return NewStore(backend, FFmpegDuration{}, cfg.StorageTimeout(), logger), nil
}
