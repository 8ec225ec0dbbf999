package like

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/view"
)

type LikeUsecase interface {
	ToggleLike(ctx context.Context, actor primitive.ObjectID, kind dbmongo.LikeTargetKind, rawID string) (*ToggleResult, error)
	GetLikedVideos(ctx context.Context, actor primitive.ObjectID) ([]view.VideoItem, error)
}

type LikeHandlers struct {
	LikeSvc LikeUsecase
	logger  *zap.Logger
}

func NewLikeHandlers(svc LikeUsecase, logger *zap.Logger) *LikeHandlers {
	return &LikeHandlers{LikeSvc: svc, logger: logger}
}

func (h *LikeHandlers) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/likes").Subrouter()
	s.Handle("/toggle/v/{videoId}", auth.Required(h.toggle(dbmongo.LikeTargetVideo, "videoId", "Video"))).Methods(http.MethodPost)
	s.Handle("/toggle/c/{commentId}", auth.Required(h.toggle(dbmongo.LikeTargetComment, "commentId", "Comment"))).Methods(http.MethodPost)
	s.Handle("/toggle/t/{tweetId}", auth.Required(h.toggle(dbmongo.LikeTargetTweet, "tweetId", "Tweet"))).Methods(http.MethodPost)
	s.Handle("/videos", auth.Required(http.HandlerFunc(h.GetLikedVideos))).Methods(http.MethodGet)
}

func (h *LikeHandlers) toggle(kind dbmongo.LikeTargetKind, param, noun string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := common.RequireUser(r)
		if err != nil {
			common.WriteError(w, h.logger, err)
			return
		}
		res, err := h.LikeSvc.ToggleLike(r.Context(), actor, kind, mux.Vars(r)[param])
		if err != nil {
			common.WriteError(w, h.logger, err)
			return
		}
		msg := noun + " liked"
		if !res.IsLiked {
			msg = noun + " unliked"
		}
		common.WriteJSON(w, http.StatusOK, res, msg)
	})
}

func (h *LikeHandlers) GetLikedVideos(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	videos, err := h.LikeSvc.GetLikedVideos(r.Context(), actor)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, videos, "Liked videos fetched successfully")
}
