package tweet

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/lifecycle"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type Tweets interface {
	CreateTweet(ctx context.Context, t *dbmongo.Tweet) error
	GetTweetByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Tweet, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*dbmongo.Tweet, error)
	DeleteTweet(ctx context.Context, id primitive.ObjectID) error
	ListUserTweets(ctx context.Context, ownerID, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.TweetItem], error)
}

type UserLookup interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type LikeCleaner interface {
	DeleteLikesByTarget(ctx context.Context, target dbmongo.LikeTarget) (int64, error)
}

type TweetService struct {
	tweets Tweets
	users  UserLookup
	likes  LikeCleaner
	steps  lifecycle.Observer
	logger *zap.Logger
}

func NewTweetService(tweets Tweets, users UserLookup, likes LikeCleaner, steps lifecycle.Observer, logger *zap.Logger) *TweetService {
	return &TweetService{tweets: tweets, users: users, likes: likes, steps: steps, logger: logger}
}

func (s *TweetService) CreateTweet(ctx context.Context, actor primitive.ObjectID, content string) (*dbmongo.Tweet, error) {
	if err := common.RequireFields("Tweet is required", common.Field{Name: "tweet", Value: content}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &dbmongo.Tweet{
		Content:   strings.TrimSpace(content),
		Owner:     actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tweets.CreateTweet(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetUserTweets lists a user's tweets newest first. A user without tweets
// yields an empty page, an unknown user is NotFound.
func (s *TweetService) GetUserTweets(ctx context.Context, rawUserID string, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.TweetItem], error) {
	userID, err := common.ParseID("user id", rawUserID)
	if err != nil {
		return nil, err
	}
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNotFound("User")
	}

	page, err := s.tweets.ListUserTweets(ctx, userID, viewer, opts)
	if err != nil {
		return nil, err
	}
	for _, item := range page.Items {
		view.CheckSingular(s.logger, "tweet", item.ID, item.OwnerMatches)
	}
	return page, nil
}

func (s *TweetService) UpdateTweet(ctx context.Context, actor primitive.ObjectID, rawTweetID, content string) (*dbmongo.Tweet, error) {
	tweetID, err := common.ParseID("tweet id", rawTweetID)
	if err != nil {
		return nil, err
	}
	if err := common.RequireFields("Tweet is required", common.Field{Name: "tweet", Value: content}); err != nil {
		return nil, err
	}

	current, err := s.tweets.GetTweetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if err := common.AuthorizeOwner(actor, current.Owner, "update this tweet"); err != nil {
		return nil, err
	}
	return s.tweets.UpdateContent(ctx, tweetID, strings.TrimSpace(content))
}

func (s *TweetService) DeleteTweet(ctx context.Context, actor primitive.ObjectID, rawTweetID string) error {
	tweetID, err := common.ParseID("tweet id", rawTweetID)
	if err != nil {
		return err
	}
	current, err := s.tweets.GetTweetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if err := common.AuthorizeOwner(actor, current.Owner, "delete this tweet"); err != nil {
		return err
	}

	report := lifecycle.New("delete-tweet", s.logger.With(zap.String("tweet_id", tweetID.Hex())), s.steps).
		Critical("delete-tweet", func(ctx context.Context) error {
			return s.tweets.DeleteTweet(ctx, tweetID)
		}).
		Recoverable("delete-tweet-likes", func(ctx context.Context) error {
			_, err := s.likes.DeleteLikesByTarget(ctx, dbmongo.TweetTarget(tweetID))
			return err
		}).
		Run(ctx)
	return report.FatalErr()
}
