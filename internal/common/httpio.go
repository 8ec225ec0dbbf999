package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxJSONBody = 1 << 20

// DecodeJSON reads a JSON request body into dst. Malformed bodies are a
// ValidationFailed error.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return ErrValidation("Request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrValidation("Request body is required")
		}
		return ErrValidation("Invalid request body", err.Error())
	}
	return nil
}

// RequireUser returns the authenticated principal or Unauthorized.
func RequireUser(r *http.Request) (primitive.ObjectID, error) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, ErrUnauthorized("authorization required")
	}
	return id, nil
}

// SaveUploadedFile copies multipart field into a fresh file under dir and
// returns its path. ok is false when the field is absent. A part declaring an
// image or video Content-Type must match want; other types are left to the
// asset store. The caller owns the file; the asset store removes it after upload.
func SaveUploadedFile(r *http.Request, field, dir string, want AssetKind) (path string, ok bool, err error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", false, nil
		}
		return "", false, ErrValidation("Invalid multipart form", err.Error())
	}
	defer file.Close()

	if ct := strings.ToLower(header.Header.Get("Content-Type")); strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") {
		if DetectAssetKind(ct) != want {
			return "", false, ErrValidation(fmt.Sprintf("%s must be of type %s", field, want), "got "+ct)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path = filepath.Join(dir, uuid.NewString()+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", false, fmt.Errorf("create temp upload: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		_ = os.Remove(path)
		return "", false, fmt.Errorf("write temp upload: %w", err)
	}
	return path, true, nil
}

// DiscardUploads removes temp files that never reached the asset store.
func DiscardUploads(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
