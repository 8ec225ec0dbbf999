package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotube/internal/view"
)

// StatsCache holds recently computed channel stats. A miss returns nil, nil.
type StatsCache interface {
	Get(ctx context.Context, channelID primitive.ObjectID) (*view.ChannelStats, error)
	Set(ctx context.Context, channelID primitive.ObjectID, stats *view.ChannelStats) error
}

// RedisKV is the subset of redis.Cmdable the cache uses.
type RedisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type RedisStatsCache struct {
	client RedisKV
	ttl    time.Duration
}

func NewRedisStatsCache(client RedisKV, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func statsKey(channelID primitive.ObjectID) string {
	return "gotube:channel-stats:" + channelID.Hex()
}

func (c *RedisStatsCache) Get(ctx context.Context, channelID primitive.ObjectID) (*view.ChannelStats, error) {
	data, err := c.client.Get(ctx, statsKey(channelID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get channel stats: %w", err)
	}
	var stats view.ChannelStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("decode channel stats: %w", err)
	}
	return &stats, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, channelID primitive.ObjectID, stats *view.ChannelStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode channel stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(channelID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set channel stats: %w", err)
	}
	return nil
}

// NopStatsCache is used when redis is disabled.
type NopStatsCache struct{}

func (NopStatsCache) Get(context.Context, primitive.ObjectID) (*view.ChannelStats, error) {
	return nil, nil
}

func (NopStatsCache) Set(context.Context, primitive.ObjectID, *view.ChannelStats) error {
	return nil
}
