package common

import (
	"context"
	"io"
)

// UploadedAsset is what the asset store reports after a successful upload.
type UploadedAsset struct {
	URL      string    `json:"url"`
	Kind     AssetKind `json:"kind"`
	Duration float64   `json:"duration,omitempty"` // seconds, videos only
}

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=common

// AssetStore is the external binary asset collaborator. Upload consumes a
// local temp file (removed afterwards). Delete of an absent resource returns
// an error, which callers accumulate rather than abort on.
type AssetStore interface {
	Upload(ctx context.Context, localPath string, kind AssetKind) (*UploadedAsset, error)
	Delete(ctx context.Context, url string, kind AssetKind) error
}

// BlobBackend is the raw object storage behind an AssetStore (GridFS, MinIO).
type BlobBackend interface {
	Put(ctx context.Context, name string, kind AssetKind, contentType string, content io.Reader, size int64) (string, error)
	Remove(ctx context.Context, url string, kind AssetKind) error
}

// OrphanRecorder counts external assets left behind after a failed cleanup.
type OrphanRecorder interface {
	OrphanedAsset(kind AssetKind)
}
