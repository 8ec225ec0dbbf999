package media

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gotube/internal/dbmongo"
)

// FileSource opens stored assets by file id.
type FileSource interface {
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *dbmongo.MediaFile, error)
}

type HTTPServer struct {
	storage FileSource
	router  *mux.Router
	logger  *zap.Logger
}

func NewHTTPServer(storage FileSource, logger *zap.Logger) *HTTPServer {
	s := &HTTPServer{storage: storage, router: mux.NewRouter(), logger: logger}
	s.router.HandleFunc("/media/{fileId}", s.serveFile).Methods(http.MethodGet, http.MethodHead)
	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	reader, file, err := s.storage.DownloadFile(r.Context(), fileID)
	if err != nil {
		s.logger.Debug("media lookup failed", zap.String("file_id", fileID), zap.Error(err))
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType(file))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	if r.Method == http.MethodHead {
		return
	}

	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Warn("media stream interrupted", zap.String("file_id", fileID), zap.Error(err))
	}
}

// contentType prefers the type recorded at upload and falls back to the
// file extension.
func contentType(file *dbmongo.MediaFile) string {
	if file.ContentType != "" {
		return file.ContentType
	}
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
