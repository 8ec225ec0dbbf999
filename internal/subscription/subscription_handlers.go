package subscription

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type SubscriptionUsecase interface {
	ToggleSubscription(ctx context.Context, actor primitive.ObjectID, rawChannelID string) (*ToggleResult, error)
	GetChannelSubscribers(ctx context.Context, rawChannelID string, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelProfile], error)
	GetSubscribedChannels(ctx context.Context, rawSubscriberID string, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelProfile], error)
}

type SubscriptionHandlers struct {
	SubscriptionSvc SubscriptionUsecase
	logger          *zap.Logger
}

func NewSubscriptionHandlers(svc SubscriptionUsecase, logger *zap.Logger) *SubscriptionHandlers {
	return &SubscriptionHandlers{SubscriptionSvc: svc, logger: logger}
}

func (h *SubscriptionHandlers) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/subscriptions").Subrouter()
	s.Handle("/c/{channelId}", auth.Required(http.HandlerFunc(h.ToggleSubscription))).Methods(http.MethodPost)
	s.Handle("/c/{channelId}", auth.Optional(http.HandlerFunc(h.GetChannelSubscribers))).Methods(http.MethodGet)
	s.Handle("/u/{subscriberId}", auth.Optional(http.HandlerFunc(h.GetSubscribedChannels))).Methods(http.MethodGet)
}

func (h *SubscriptionHandlers) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	res, err := h.SubscriptionSvc.ToggleSubscription(r.Context(), actor, mux.Vars(r)["channelId"])
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	msg := "Unsubscribed successfully"
	if res.IsSubscribed {
		msg = "Subscribed successfully"
	}
	common.WriteJSON(w, http.StatusOK, res, msg)
}

func (h *SubscriptionHandlers) GetChannelSubscribers(w http.ResponseWriter, r *http.Request) {
	viewer, _ := common.UserIDFromContext(r.Context())
	page, err := h.SubscriptionSvc.GetChannelSubscribers(r.Context(), mux.Vars(r)["channelId"], viewer, paginate.FromQuery(r.URL.Query()))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page, "Subscribers fetched successfully")
}

func (h *SubscriptionHandlers) GetSubscribedChannels(w http.ResponseWriter, r *http.Request) {
	viewer, _ := common.UserIDFromContext(r.Context())
	page, err := h.SubscriptionSvc.GetSubscribedChannels(r.Context(), mux.Vars(r)["subscriberId"], viewer, paginate.FromQuery(r.URL.Query()))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page, "Subscribed channels fetched successfully")
}
