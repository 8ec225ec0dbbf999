package dashboard

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

type DashboardUsecase interface {
	GetChannelStats(ctx context.Context, actor primitive.ObjectID) (*view.ChannelStats, error)
	GetChannelVideos(ctx context.Context, actor primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelVideo], error)
}

type DashboardHandlers struct {
	DashboardSvc DashboardUsecase
	logger       *zap.Logger
}

func NewDashboardHandlers(svc DashboardUsecase, logger *zap.Logger) *DashboardHandlers {
	return &DashboardHandlers{DashboardSvc: svc, logger: logger}
}

func (h *DashboardHandlers) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/dashboard").Subrouter()
	s.Use(auth.Required)
	s.HandleFunc("/stats", h.GetChannelStats).Methods(http.MethodGet)
	s.HandleFunc("/videos", h.GetChannelVideos).Methods(http.MethodGet)
}

func (h *DashboardHandlers) GetChannelStats(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	stats, err := h.DashboardSvc.GetChannelStats(r.Context(), actor)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, stats, "Channel stats fetched successfully")
}

func (h *DashboardHandlers) GetChannelVideos(w http.ResponseWriter, r *http.Request) {
	actor, err := common.RequireUser(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	page, err := h.DashboardSvc.GetChannelVideos(r.Context(), actor, paginate.FromQuery(r.URL.Query()))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page, "Channel videos fetched successfully")
}
