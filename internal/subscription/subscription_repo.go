package subscription

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type SubscriptionRepository struct {
	subscriptions *mongo.Collection
}

func NewSubscriptionRepository(mc *dbmongo.MongoClient) *SubscriptionRepository {
	return &SubscriptionRepository{subscriptions: mc.Collection(dbmongo.SubscriptionsCollection)}
}

func pairFilter(subscriber, channel primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "subscriber", Value: subscriber},
		{Key: "channel", Value: channel},
	}
}

// FindSubscription returns nil when subscriber does not follow channel.
func (r *SubscriptionRepository) FindSubscription(ctx context.Context, subscriber, channel primitive.ObjectID) (*dbmongo.Subscription, error) {
	var s dbmongo.Subscription
	err := r.subscriptions.FindOne(ctx, pairFilter(subscriber, channel)).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return &s, nil
}

func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, s *dbmongo.Subscription) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if _, err := r.subscriptions.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// DeleteSubscriptions removes every row for the pair, duplicates included.
func (r *SubscriptionRepository) DeleteSubscriptions(ctx context.Context, subscriber, channel primitive.ObjectID) (int64, error) {
	res, err := r.subscriptions.DeleteMany(ctx, pairFilter(subscriber, channel))
	if err != nil {
		return 0, fmt.Errorf("delete subscriptions: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *SubscriptionRepository) Subscribers(ctx context.Context, channel, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelProfile], error) {
	return paginate.Paginate[view.ChannelProfile](ctx, r.subscriptions, view.SubscriberList(channel, viewer), opts)
}

func (r *SubscriptionRepository) SubscribedChannels(ctx context.Context, subscriber, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelProfile], error) {
	return paginate.Paginate[view.ChannelProfile](ctx, r.subscriptions, view.SubscribedChannels(subscriber, viewer), opts)
}
