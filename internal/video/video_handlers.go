package video

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

const maxMultipartMemory = 32 << 20

type VideoUsecase interface {
	ListVideos(ctx context.Context, q ListQuery, opts paginate.Options) (*paginate.Page[view.VideoItem], error)
	PublishVideo(ctx context.Context, owner primitive.ObjectID, in PublishInput) (*dbmongo.Video, error)
	GetVideo(ctx context.Context, rawID string, viewer primitive.ObjectID) (*view.VideoDetail, error)
	UpdateVideo(ctx context.Context, actor primitive.ObjectID, rawID string, in UpdateInput) (*dbmongo.Video, error)
	TogglePublishStatus(ctx context.Context, actor primitive.ObjectID, rawID string) (*dbmongo.Video, error)
	DeleteVideo(ctx context.Context, actor primitive.ObjectID, rawID string) (*DeleteResult, error)
}

type VideoHandlers struct {
	VideoSvc  VideoUsecase
	uploadDir string
	logger    *zap.Logger
}

func NewVideoHandlers(svc VideoUsecase, settings Settings, logger *zap.Logger) *VideoHandlers {
	return &VideoHandlers{VideoSvc: svc, uploadDir: settings.UploadDir, logger: logger}
}

func (h *VideoHandlers) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/videos").Subrouter()
	s.Handle("", auth.Optional(http.HandlerFunc(h.ListVideos))).Methods(http.MethodGet)
	s.Handle("", auth.Required(http.HandlerFunc(h.PublishVideo))).Methods(http.MethodPost)
	s.Handle("/{videoId}", auth.Optional(http.HandlerFunc(h.GetVideo))).Methods(http.MethodGet)
	s.Handle("/{videoId}", auth.Required(http.HandlerFunc(h.UpdateVideo))).Methods(http.MethodPatch)
	s.Handle("/{videoId}", auth.Required(http.HandlerFunc(h.DeleteVideo))).Methods(http.MethodDelete)
	s.Handle("/{videoId}/publish", auth.Required(http.HandlerFunc(h.TogglePublishStatus))).Methods(http.MethodPatch)
}

func (h *VideoHandlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	viewer, _ := common.UserIDFromContext(r.Context())

	page, err := h.VideoSvc.ListVideos(r.Context(), ListQuery{
		Query:    q.Get("query"),
		UserID:   q.Get("userId"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
		Viewer:   viewer,
	}, paginate.FromQuery(q))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page, "Videos fetched successfully")
}

func (h *VideoHandlers) PublishVideo(w http.ResponseWriter, r *http.Request) {
	owner, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		common.WriteError(w, h.logger, common.ErrValidation("Invalid multipart form", err.Error()))
		return
	}

	videoPath, _, err := common.SaveUploadedFile(r, "videoFile", h.uploadDir, common.AssetKindVideo)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	thumbPath, _, err := common.SaveUploadedFile(r, "thumbnail", h.uploadDir, common.AssetKindImage)
	if err != nil {
		common.DiscardUploads(videoPath)
		common.WriteError(w, h.logger, err)
		return
	}

	v, err := h.VideoSvc.PublishVideo(r.Context(), owner, PublishInput{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{"video": v}, "Video uploaded successfully")
}

func (h *VideoHandlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	viewer, _ := common.UserIDFromContext(r.Context())
	detail, err := h.VideoSvc.GetVideo(r.Context(), mux.Vars(r)["videoId"], viewer)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, detail, "Video fetched successfully")
}

func (h *VideoHandlers) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		common.WriteError(w, h.logger, common.ErrValidation("Invalid multipart form", err.Error()))
		return
	}
	thumbPath, _, err := common.SaveUploadedFile(r, "thumbnail", h.uploadDir, common.AssetKindImage)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	v, err := h.VideoSvc.UpdateVideo(r.Context(), actor, mux.Vars(r)["videoId"], UpdateInput{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, v, "Video updated successfully")
}

func (h *VideoHandlers) TogglePublishStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	v, err := h.VideoSvc.TogglePublishStatus(r.Context(), actor, mux.Vars(r)["videoId"])
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"updatedVideo": v}, "Video publish status toggled successfully")
}

func (h *VideoHandlers) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	result, err := h.VideoSvc.DeleteVideo(r.Context(), actor, mux.Vars(r)["videoId"])
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, result, result.Message())
}
