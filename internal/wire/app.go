// Package wire assembles the API server from its repositories, services and
// handlers.
package wire

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"gotube/internal/comment"
	"gotube/internal/common"
	"gotube/internal/config"
	"gotube/internal/dashboard"
	"gotube/internal/dbmongo"
	"gotube/internal/like"
	"gotube/internal/metrics"
	"gotube/internal/subscription"
	"gotube/internal/tweet"
	"gotube/internal/user"
	"gotube/internal/video"
)

type Application struct {
	Config  *config.Config
	Logger  *zap.Logger
	Mongo   *dbmongo.MongoClient
	Metrics *metrics.Collector
	Auth    *common.Authenticator

	Users         *user.Handler
	Videos        *video.VideoHandlers
	Comments      *comment.CommentHandlers
	Tweets        *tweet.TweetHandlers
	Likes         *like.LikeHandlers
	Subscriptions *subscription.SubscriptionHandlers
	Dashboard     *dashboard.DashboardHandlers
}

type routeRegistrar interface {
	RegisterRoutes(r *mux.Router, auth *common.Authenticator)
}

// Router mounts every domain under /api/v1 and wraps the result with request
// ids, access logs, metrics, optional rate limiting and CORS.
func (a *Application) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(common.RequestID, common.AccessLog(a.Logger), a.Metrics.Middleware)
	if a.Config.Server.RateLimitRPS > 0 {
		router.Use(common.NewRateLimiter(a.Config.Server.RateLimitRPS, a.Config.Server.RateLimitBurst).Middleware)
	}

	router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	router.Handle("/metrics", a.Metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	for _, h := range []routeRegistrar{
		a.Users, a.Videos, a.Comments, a.Tweets, a.Likes, a.Subscriptions, a.Dashboard,
	} {
		h.RegisterRoutes(api, a.Auth)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   a.Config.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)
}

func (a *Application) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := http.StatusOK
	body := map[string]string{"status": "healthy", "service": "gotube"}
	if a.Mongo != nil {
		if err := a.Mongo.Client.Ping(r.Context(), nil); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["mongodb"] = err.Error()
		}
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
