package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type fakeKV struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

type fakeChannels struct {
	stats      map[primitive.ObjectID]view.ChannelStats
	videos     map[primitive.ObjectID][]view.ChannelVideo
	statsCalls int
}

func (f *fakeChannels) Stats(_ context.Context, id primitive.ObjectID) (*view.ChannelStats, error) {
	f.statsCalls++
	s, ok := f.stats[id]
	if !ok {
		return nil, common.ErrNotFound("Channel")
	}
	return &s, nil
}

func (f *fakeChannels) ChannelVideos(_ context.Context, id primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelVideo], error) {
	items := f.videos[id]
	return paginate.NewPage(items, int64(len(items)), opts), nil
}

func TestRedisStatsCache_RoundTripWithTTL(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	cache := NewRedisStatsCache(kv, 30*time.Second)
	channel := primitive.NewObjectID()

	miss, err := cache.Get(ctx, channel)
	require.NoError(t, err)
	assert.Nil(t, miss)

	want := &view.ChannelStats{TotalSubscribers: 3, TotalVideos: 2, TotalViews: 40, TotalLikes: 5, TotalComments: 1}
	require.NoError(t, cache.Set(ctx, channel, want))
	assert.Equal(t, 30*time.Second, kv.ttls[statsKey(channel)])

	got, err := cache.Get(ctx, channel)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisStatsCache_CorruptEntry(t *testing.T) {
	kv := newFakeKV()
	channel := primitive.NewObjectID()
	kv.data[statsKey(channel)] = "{not json"
	_, err := NewRedisStatsCache(kv, time.Second).Get(context.Background(), channel)
	assert.Error(t, err)
}

func TestGetChannelStats_UsesCache(t *testing.T) {
	ctx := context.Background()
	channel := primitive.NewObjectID()
	channels := &fakeChannels{stats: map[primitive.ObjectID]view.ChannelStats{
		channel: {TotalVideos: 4, TotalViews: 100},
	}}
	svc := NewDashboardService(channels, NewRedisStatsCache(newFakeKV(), time.Minute), zap.NewNop())

	for i := 0; i < 3; i++ {
		stats, err := svc.GetChannelStats(ctx, channel)
		require.NoError(t, err)
		assert.EqualValues(t, 100, stats.TotalViews)
	}
	assert.Equal(t, 1, channels.statsCalls)
}

func TestGetChannelStats_CacheFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	channel := primitive.NewObjectID()
	channels := &fakeChannels{stats: map[primitive.ObjectID]view.ChannelStats{channel: {TotalSubscribers: 7}}}
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	kv.setErr = errors.New("connection refused")
	svc := NewDashboardService(channels, NewRedisStatsCache(kv, time.Minute), zap.NewNop())

	stats, err := svc.GetChannelStats(ctx, channel)
	require.NoError(t, err)
	assert.EqualValues(t, 7, stats.TotalSubscribers)

	_, err = NewDashboardService(channels, nil, zap.NewNop()).GetChannelStats(ctx, primitive.NewObjectID())
	assert.True(t, common.HasCode(err, common.ErrCodeNotFound))
}

func TestDashboardHandlers(t *testing.T) {
	channel := primitive.NewObjectID()
	channels := &fakeChannels{
		stats: map[primitive.ObjectID]view.ChannelStats{channel: {TotalVideos: 1, TotalLikes: 2}},
		videos: map[primitive.ObjectID][]view.ChannelVideo{channel: {
			{ID: primitive.NewObjectID(), Title: "draft", IsPublished: false, LikesCount: 2},
		}},
	}
	tokens := common.NewTokenManager("dash-secret", time.Hour)
	r := mux.NewRouter()
	NewDashboardHandlers(NewDashboardService(channels, NopStatsCache{}, zap.NewNop()), zap.NewNop()).
		RegisterRoutes(r, common.NewAuthenticator(tokens, zap.NewNop()))
	tok, err := tokens.GenerateToken(channel, "creator")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	get := func(path string) map[string]interface{} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	body := get("/dashboard/stats")
	assert.Equal(t, "Channel stats fetched successfully", body["message"])
	assert.EqualValues(t, 2, body["data"].(map[string]interface{})["totalLikes"])

	body = get("/dashboard/videos?page=1&limit=5")
	assert.Equal(t, "Channel videos fetched successfully", body["message"])
	data := body["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, false, items[0].(map[string]interface{})["isPublished"])
	assert.EqualValues(t, 5, data["limit"])
}
