package dashboard

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/paginate"
	"gotube/internal/view"
)

type Channels interface {
	Stats(ctx context.Context, channelID primitive.ObjectID) (*view.ChannelStats, error)
	ChannelVideos(ctx context.Context, channelID primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelVideo], error)
}

type DashboardService struct {
	channels Channels
	cache    StatsCache
	logger   *zap.Logger
}

func NewDashboardService(channels Channels, cache StatsCache, logger *zap.Logger) *DashboardService {
	if cache == nil {
		cache = NopStatsCache{}
	}
	return &DashboardService{channels: channels, cache: cache, logger: logger}
}

// GetChannelStats serves the actor's channel totals. Cache failures degrade
// to a direct aggregation.
func (s *DashboardService) GetChannelStats(ctx context.Context, actor primitive.ObjectID) (*view.ChannelStats, error) {
	cached, err := s.cache.Get(ctx, actor)
	if err != nil {
		s.logger.Warn("channel stats cache read failed", zap.String("channel_id", actor.Hex()), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	stats, err := s.channels.Stats(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, actor, stats); err != nil {
		s.logger.Warn("channel stats cache write failed", zap.String("channel_id", actor.Hex()), zap.Error(err))
	}
	return stats, nil
}

// GetChannelVideos lists the actor's videos, drafts included.
func (s *DashboardService) GetChannelVideos(ctx context.Context, actor primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelVideo], error) {
	return s.channels.ChannelVideos(ctx, actor, opts)
}
