package dashboard

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type DashboardRepository struct {
	users  *mongo.Collection
	videos *mongo.Collection
}

func NewDashboardRepository(mc *dbmongo.MongoClient) *DashboardRepository {
	return &DashboardRepository{
		users:  mc.Collection(dbmongo.UsersCollection),
		videos: mc.Collection(dbmongo.VideosCollection),
	}
}

// Stats aggregates from the channel's user document so a channel with no
// videos or subscribers still yields a zeroed row.
func (r *DashboardRepository) Stats(ctx context.Context, channelID primitive.ObjectID) (*view.ChannelStats, error) {
	stats, err := paginate.One[view.ChannelStats](ctx, r.users, view.ChannelStatsPipeline(channelID))
	if errors.Is(err, paginate.ErrNoResult) {
		return nil, common.ErrNotFound("Channel")
	}
	return stats, err
}

func (r *DashboardRepository) ChannelVideos(ctx context.Context, channelID primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelVideo], error) {
	return paginate.Paginate[view.ChannelVideo](ctx, r.videos, view.ChannelVideos(channelID), opts)
}
