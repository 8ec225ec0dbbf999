package tweet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type TweetRepository struct {
	tweets *mongo.Collection
}

func NewTweetRepository(mc *dbmongo.MongoClient) *TweetRepository {
	return &TweetRepository{tweets: mc.Collection(dbmongo.TweetsCollection)}
}

func (r *TweetRepository) CreateTweet(ctx context.Context, t *dbmongo.Tweet) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if _, err := r.tweets.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert tweet: %w", err)
	}
	return nil
}

func (r *TweetRepository) GetTweetByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Tweet, error) {
	var t dbmongo.Tweet
	err := r.tweets.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound("Tweet")
	}
	if err != nil {
		return nil, fmt.Errorf("find tweet: %w", err)
	}
	return &t, nil
}

func (r *TweetRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.tweets.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count tweets: %w", err)
	}
	return count > 0, nil
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*dbmongo.Tweet, error) {
	var t dbmongo.Tweet
	err := r.tweets.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound("Tweet")
	}
	if err != nil {
		return nil, fmt.Errorf("update tweet: %w", err)
	}
	return &t, nil
}

func (r *TweetRepository) DeleteTweet(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.tweets.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound("Tweet")
	}
	return nil
}

func (r *TweetRepository) ListUserTweets(ctx context.Context, ownerID, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.TweetItem], error) {
	return paginate.Paginate[view.TweetItem](ctx, r.tweets, view.TweetListing(ownerID, viewer), opts)
}
