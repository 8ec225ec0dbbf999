package subscription

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type Subscriptions interface {
	FindSubscription(ctx context.Context, subscriber, channel primitive.ObjectID) (*dbmongo.Subscription, error)
	CreateSubscription(ctx context.Context, s *dbmongo.Subscription) error
	DeleteSubscriptions(ctx context.Context, subscriber, channel primitive.ObjectID) (int64, error)
	Subscribers(ctx context.Context, channel, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelProfile], error)
	SubscribedChannels(ctx context.Context, subscriber, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelProfile], error)
}

type UserLookup interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type ToggleResult struct {
	IsSubscribed bool `json:"isSubscribed"`
}

type SubscriptionService struct {
	subscriptions Subscriptions
	users         UserLookup
	now           func() time.Time
	logger        *zap.Logger
}

func NewSubscriptionService(subscriptions Subscriptions, users UserLookup, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, users: users, now: time.Now, logger: logger}
}

func (s *SubscriptionService) requireUser(ctx context.Context, field, raw string) (primitive.ObjectID, error) {
	id, err := common.ParseID(field, raw)
	if err != nil {
		return primitive.NilObjectID, err
	}
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !ok {
		return primitive.NilObjectID, common.ErrNotFound("Channel")
	}
	return id, nil
}

// ToggleSubscription follows or unfollows a channel for the actor.
func (s *SubscriptionService) ToggleSubscription(ctx context.Context, actor primitive.ObjectID, rawChannelID string) (*ToggleResult, error) {
	channel, err := s.requireUser(ctx, "channel id", rawChannelID)
	if err != nil {
		return nil, err
	}
	if channel == actor {
		return nil, common.ErrValidation("You cannot subscribe to your own channel")
	}

	existing, err := s.subscriptions.FindSubscription(ctx, actor, channel)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		removed, err := s.subscriptions.DeleteSubscriptions(ctx, actor, channel)
		if err != nil {
			return nil, err
		}
		if removed > 1 {
			s.logger.Warn("removed duplicate subscriptions",
				zap.String("channel_id", channel.Hex()),
				zap.Int64("count", removed),
			)
		}
		return &ToggleResult{IsSubscribed: false}, nil
	}

	now := s.now().UTC()
	sub := &dbmongo.Subscription{
		Subscriber: actor,
		Channel:    channel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.subscriptions.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return &ToggleResult{IsSubscribed: true}, nil
}

func (s *SubscriptionService) GetChannelSubscribers(ctx context.Context, rawChannelID string, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelProfile], error) {
	channel, err := s.requireUser(ctx, "channel id", rawChannelID)
	if err != nil {
		return nil, err
	}
	return s.subscriptions.Subscribers(ctx, channel, viewer, opts)
}

func (s *SubscriptionService) GetSubscribedChannels(ctx context.Context, rawSubscriberID string, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.ChannelProfile], error) {
	subscriber, err := common.ParseID("subscriber id", rawSubscriberID)
	if err != nil {
		return nil, err
	}
	ok, err := s.users.Exists(ctx, subscriber)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNotFound("User")
	}
	return s.subscriptions.SubscribedChannels(ctx, subscriber, viewer, opts)
}
