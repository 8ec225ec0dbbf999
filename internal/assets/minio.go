package assets

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"gotube/internal/common"
	"gotube/internal/config"
)

// MinioBackend stores assets in one bucket, videos under video/ and images
// under image/.
type MinioBackend struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioBackend(ctx context.Context, cfg config.StorageConfig) (*MinioBackend, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket error: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket error: %w", err)
		}
	}

	return &MinioBackend{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: publicBase(cfg),
	}, nil
}

func publicBase(cfg config.StorageConfig) string {
	if cfg.MinioPublicURL != "" {
		return strings.TrimRight(cfg.MinioPublicURL, "/")
	}
	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)
}

func (b *MinioBackend) Put(ctx context.Context, name string, kind common.AssetKind, contentType string, content io.Reader, size int64) (string, error) {
	key := objectKey(kind, name)
	_, err := b.client.PutObject(ctx, b.bucket, key, content, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", b.publicURL, b.bucket, key), nil
}

// Remove stats the object first so that deleting an absent asset fails;
// RemoveObject alone succeeds silently on missing keys.
func (b *MinioBackend) Remove(ctx context.Context, url string, kind common.AssetKind) error {
	key, err := ObjectKeyFromURL(url, b.publicURL, b.bucket)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(key, kind.String()+"/") {
		return fmt.Errorf("asset %s is not a %s resource", key, kind)
	}
	if _, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{}); err != nil {
		return fmt.Errorf("stat %s: %w", key, err)
	}
	return b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{})
}

func objectKey(kind common.AssetKind, name string) string {
	return kind.String() + "/" + name
}

// ObjectKeyFromURL strips "<publicURL>/<bucket>/" from a locator.
func ObjectKeyFromURL(url, publicURL, bucket string) (string, error) {
	prefix := strings.TrimRight(publicURL, "/") + "/" + bucket + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", fmt.Errorf("asset url %q does not belong to bucket %s", url, bucket)
	}
	key := strings.TrimPrefix(url, prefix)
	if i := strings.IndexByte(key, '?'); i >= 0 {
		key = key[:i]
	}
	return key, nil
}
