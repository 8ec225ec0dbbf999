package dbmongo

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotube/internal/common"
)

// MediaStorage keeps binary assets in a GridFS bucket and hands out locators
// of the form <baseURL>/<fileID>, served by the media server.
type MediaStorage struct {
	gridFS  *gridfs.Bucket
	baseURL string
}

func NewMediaStorage(mongoClient *MongoClient, baseURL string) *MediaStorage {
	return &MediaStorage{
		gridFS:  mongoClient.GridFS,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type MediaFile struct {
	ID          string           `json:"id"`
	Filename    string           `json:"filename"`
	Size        int64            `json:"size"`
	Kind        common.AssetKind `json:"kind"`
	ContentType string           `json:"content_type"`
	UploadedAt  time.Time        `json:"uploaded_at"`
}

// Put implements common.BlobBackend.
func (ms *MediaStorage) Put(ctx context.Context, name string, kind common.AssetKind, contentType string, content io.Reader, size int64) (string, error) {
	metadata := bson.M{
		"kind":         kind.String(),
		"content_type": contentType,
		"uploaded_at":  time.Now(),
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	fileID, err := ms.gridFS.UploadFromStream(name, content, opts)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return ms.baseURL + "/" + fileID.Hex(), nil
}

// Remove implements common.BlobBackend. Removing an absent file fails with
// gridfs.ErrFileNotFound.
func (ms *MediaStorage) Remove(ctx context.Context, locator string, kind common.AssetKind) error {
	objectID, err := FileIDFromURL(locator)
	if err != nil {
		return err
	}
	if err := ms.gridFS.DeleteContext(ctx, objectID); err != nil {
		return fmt.Errorf("delete %s asset %s: %w", kind, objectID.Hex(), err)
	}
	return nil
}

func (ms *MediaStorage) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *MediaFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid file ID: %w", err)
	}

	stream, err := ms.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		_ = bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	return stream, &MediaFile{
		ID:          fileID,
		Filename:    fileInfo.Name,
		Size:        fileInfo.Length,
		Kind:        common.AssetKind(getStringFromMap(metadata, "kind")),
		ContentType: getStringFromMap(metadata, "content_type"),
		UploadedAt:  fileInfo.UploadDate,
	}, nil
}

// FileIDFromURL extracts the GridFS file id from the last path segment of a
// locator.
func FileIDFromURL(locator string) (primitive.ObjectID, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid asset url %q: %w", locator, err)
	}
	id, err := primitive.ObjectIDFromHex(path.Base(u.Path))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid file ID in %q: %w", locator, err)
	}
	return id, nil
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
