package tweet

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

type TweetUsecase interface {
	CreateTweet(ctx context.Context, actor primitive.ObjectID, content string) (*dbmongo.Tweet, error)
	GetUserTweets(ctx context.Context, rawUserID string, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.TweetItem], error)
	UpdateTweet(ctx context.Context, actor primitive.ObjectID, rawTweetID, content string) (*dbmongo.Tweet, error)
	DeleteTweet(ctx context.Context, actor primitive.ObjectID, rawTweetID string) error
}

type TweetHandlers struct {
	TweetSvc TweetUsecase
	logger   *zap.Logger
}

func NewTweetHandlers(svc TweetUsecase, logger *zap.Logger) *TweetHandlers {
	return &TweetHandlers{TweetSvc: svc, logger: logger}
}

func (h *TweetHandlers) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/tweets").Subrouter()
	s.Handle("", auth.Required(http.HandlerFunc(h.CreateTweet))).Methods(http.MethodPost)
	s.Handle("/user/{userId}", auth.Optional(http.HandlerFunc(h.GetUserTweets))).Methods(http.MethodGet)
	s.Handle("/{tweetId}", auth.Required(http.HandlerFunc(h.UpdateTweet))).Methods(http.MethodPatch)
	s.Handle("/{tweetId}", auth.Required(http.HandlerFunc(h.DeleteTweet))).Methods(http.MethodDelete)
}

// tweetRequest accepts the text under "tweet" or "content".
type tweetRequest struct {
	Tweet   string `json:"tweet"`
	Content string `json:"content"`
}

func (req tweetRequest) text() string {
	if req.Tweet != "" {
		return req.Tweet
	}
	return req.Content
}

func (h *TweetHandlers) CreateTweet(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	var req tweetRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	t, err := h.TweetSvc.CreateTweet(r.Context(), actor, req.text())
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{"createdTweet": t}, "Tweet created successfully")
}

func (h *TweetHandlers) GetUserTweets(w http.ResponseWriter, r *http.Request) {
	viewer, _ := common.UserIDFromContext(r.Context())
	page, err := h.TweetSvc.GetUserTweets(r.Context(), mux.Vars(r)["userId"], viewer, paginate.FromQuery(r.URL.Query()))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page, "Tweets fetched successfully")
}

func (h *TweetHandlers) UpdateTweet(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	var req tweetRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	t, err := h.TweetSvc.UpdateTweet(r.Context(), actor, mux.Vars(r)["tweetId"], req.text())
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"updatedTweet": t}, "Tweet updated successfully")
}

func (h *TweetHandlers) DeleteTweet(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.TweetSvc.DeleteTweet(r.Context(), actor, mux.Vars(r)["tweetId"]); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{}, "Tweet deleted successfully")
}
