package wire

import (
	"context"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gotube/internal/assets"
	"gotube/internal/comment"
	"gotube/internal/common"
	"gotube/internal/config"
	"gotube/internal/dashboard"
	"gotube/internal/dbmongo"
	"gotube/internal/like"
	"gotube/internal/lifecycle"
	"gotube/internal/logging"
	"gotube/internal/metrics"
	"gotube/internal/subscription"
	"gotube/internal/tweet"
	"gotube/internal/user"
	"gotube/internal/video"
)

var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideMongo,
	ProvideTokenManager,
	common.NewAuthenticator,
	metrics.NewCollector,
	wire.Bind(new(common.OrphanRecorder), new(*metrics.Collector)),
	wire.Bind(new(lifecycle.Observer), new(*metrics.Collector)),
	assets.NewAssetStore,
	wire.Bind(new(common.AssetStore), new(*assets.Store)),
	ProvideStatsCache,
)

var RepositorySet = wire.NewSet(
	user.NewUserRepository,
	video.NewVideoRepository,
	comment.NewCommentRepository,
	tweet.NewTweetRepository,
	like.NewLikeRepository,
	subscription.NewSubscriptionRepository,
	dashboard.NewDashboardRepository,
)

var ServiceSet = wire.NewSet(
	ProvideVideoSettings,
	ProvideLikeTargets,

	user.NewUserService,
	wire.Bind(new(video.WatchHistory), new(user.UserRepository)),
	wire.Bind(new(tweet.UserLookup), new(user.UserRepository)),
	wire.Bind(new(subscription.UserLookup), new(user.UserRepository)),

	video.NewVideoService,
	wire.Bind(new(video.Videos), new(*video.VideoRepository)),
	wire.Bind(new(video.CommentCleaner), new(*comment.CommentRepository)),
	wire.Bind(new(video.LikeCleaner), new(*like.LikeRepository)),

	comment.NewCommentService,
	wire.Bind(new(comment.Comments), new(*comment.CommentRepository)),
	wire.Bind(new(comment.VideoLookup), new(*video.VideoRepository)),
	wire.Bind(new(comment.LikeCleaner), new(*like.LikeRepository)),

	tweet.NewTweetService,
	wire.Bind(new(tweet.Tweets), new(*tweet.TweetRepository)),
	wire.Bind(new(tweet.LikeCleaner), new(*like.LikeRepository)),

	like.NewLikeService,
	wire.Bind(new(like.Likes), new(*like.LikeRepository)),

	subscription.NewSubscriptionService,
	wire.Bind(new(subscription.Subscriptions), new(*subscription.SubscriptionRepository)),

	dashboard.NewDashboardService,
	wire.Bind(new(dashboard.Channels), new(*dashboard.DashboardRepository)),
)

var HandlerSet = wire.NewSet(
	user.NewHandler,
	video.NewVideoHandlers,
	wire.Bind(new(video.VideoUsecase), new(*video.VideoService)),
	comment.NewCommentHandlers,
	wire.Bind(new(comment.CommentUsecase), new(*comment.CommentService)),
	tweet.NewTweetHandlers,
	wire.Bind(new(tweet.TweetUsecase), new(*tweet.TweetService)),
	like.NewLikeHandlers,
	wire.Bind(new(like.LikeUsecase), new(*like.LikeService)),
	subscription.NewSubscriptionHandlers,
	wire.Bind(new(subscription.SubscriptionUsecase), new(*subscription.SubscriptionService)),
	dashboard.NewDashboardHandlers,
	wire.Bind(new(dashboard.DashboardUsecase), new(*dashboard.DashboardService)),
)

func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.Logging.Format, cfg.Logging.Level)
}

func ProvideMongo(cfg *config.Config, logger *zap.Logger) (*dbmongo.MongoClient, func(), error) {
	mc, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDB.Database))
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mc.Close(ctx); err != nil {
			logger.Warn("mongodb disconnect failed", zap.Error(err))
		}
	}
	return mc, cleanup, nil
}

func ProvideTokenManager(cfg *config.Config) *common.TokenManager {
	return common.NewTokenManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
}

// ProvideStatsCache returns a redis-backed cache when enabled and reachable,
// otherwise a no-op cache. An unreachable redis is not fatal.
func ProvideStatsCache(cfg *config.Config, logger *zap.Logger) (dashboard.StatsCache, func()) {
	if !cfg.Redis.Enabled {
		return dashboard.NopStatsCache{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, channel stats cache disabled",
			zap.String("address", cfg.Redis.Address), zap.Error(err))
		_ = client.Close()
		return dashboard.NopStatsCache{}, func() {}
	}

	ttl := time.Duration(cfg.Redis.StatsTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	logger.Info("channel stats cache ready", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", ttl))
	return dashboard.NewRedisStatsCache(client, ttl), func() { _ = client.Close() }
}

func ProvideVideoSettings(cfg *config.Config) video.Settings {
	return video.Settings{
		SearchIndex: cfg.MongoDB.SearchIndex,
		UploadDir:   cfg.Storage.UploadDir,
	}
}

func ProvideLikeTargets(videos *video.VideoRepository, comments *comment.CommentRepository, tweets *tweet.TweetRepository) like.Targets {
	return like.Targets{Videos: videos, Comments: comments, Tweets: tweets}
}
