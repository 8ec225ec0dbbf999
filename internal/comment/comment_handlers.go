package comment

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

type CommentUsecase interface {
	GetVideoComments(ctx context.Context, rawVideoID string, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.CommentItem], error)
	AddComment(ctx context.Context, actor primitive.ObjectID, rawVideoID, content string) (*dbmongo.Comment, error)
	UpdateComment(ctx context.Context, actor primitive.ObjectID, rawCommentID, content string) (*dbmongo.Comment, error)
	DeleteComment(ctx context.Context, actor primitive.ObjectID, rawCommentID string) (*dbmongo.Comment, error)
}

type CommentHandlers struct {
	CommentSvc CommentUsecase
	logger     *zap.Logger
}

func NewCommentHandlers(svc CommentUsecase, logger *zap.Logger) *CommentHandlers {
	return &CommentHandlers{CommentSvc: svc, logger: logger}
}

func (h *CommentHandlers) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/comments").Subrouter()
	s.Handle("/c/{commentId}", auth.Required(http.HandlerFunc(h.UpdateComment))).Methods(http.MethodPatch)
	s.Handle("/c/{commentId}", auth.Required(http.HandlerFunc(h.DeleteComment))).Methods(http.MethodDelete)
	s.Handle("/{videoId}", auth.Optional(http.HandlerFunc(h.GetVideoComments))).Methods(http.MethodGet)
	s.Handle("/{videoId}", auth.Required(http.HandlerFunc(h.AddComment))).Methods(http.MethodPost)
}

type contentRequest struct {
	Content string `json:"content"`
}

func (h *CommentHandlers) GetVideoComments(w http.ResponseWriter, r *http.Request) {
	viewer, _ := common.UserIDFromContext(r.Context())
	page, err := h.CommentSvc.GetVideoComments(r.Context(), mux.Vars(r)["videoId"], viewer, paginate.FromQuery(r.URL.Query()))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page, "All comments fetched successfully")
}

func (h *CommentHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	var req contentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	c, err := h.CommentSvc.AddComment(r.Context(), actor, mux.Vars(r)["videoId"], req.Content)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, c, "Comment added successfully")
}

func (h *CommentHandlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	var req contentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	c, err := h.CommentSvc.UpdateComment(r.Context(), actor, mux.Vars(r)["commentId"], req.Content)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, c, "Comment updated successfully")
}

func (h *CommentHandlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	c, err := h.CommentSvc.DeleteComment(r.Context(), actor, mux.Vars(r)["commentId"])
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, c, "Comment deleted successfully")
}
