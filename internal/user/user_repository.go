package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

//go:generate mockgen -source=user_repository.go -destination=mock_user_repository.go -package=user

// UserRepository holds every user read and write, including the watch
// history other domains append to and prune.
type UserRepository interface {
	CreateUser(ctx context.Context, user *dbmongo.User) error
	GetUserByID(ctx context.Context, userID primitive.ObjectID) (*dbmongo.User, error)
	GetUserByLogin(ctx context.Context, login string) (*dbmongo.User, error)
	CheckUserExists(ctx context.Context, username, email string) (bool, error)
	Exists(ctx context.Context, userID primitive.ObjectID) (bool, error)

	AddToWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) error
	PullFromWatchHistories(ctx context.Context, videoID primitive.ObjectID) (int64, error)
	WatchHistory(ctx context.Context, userID primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.VideoItem], error)
}

type userRepository struct {
	users *mongo.Collection
}

func NewUserRepository(mc *dbmongo.MongoClient) UserRepository {
	return &userRepository{users: mc.Collection(dbmongo.UsersCollection)}
}

func (r *userRepository) CreateUser(ctx context.Context, user *dbmongo.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrConflict("User with email or username already exists")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*dbmongo.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: userID}})
}

// GetUserByLogin accepts either a username or an email.
func (r *userRepository) GetUserByLogin(ctx context.Context, login string) (*dbmongo.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	return r.findOne(ctx, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: login}},
		bson.D{{Key: "email", Value: login}},
	}}})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.D) (*dbmongo.User, error) {
	var user dbmongo.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) CheckUserExists(ctx context.Context, username, email string) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: strings.ToLower(username)}},
		bson.D{{Key: "email", Value: strings.ToLower(email)}},
	}}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) Exists(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.D{{Key: "_id", Value: userID}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) AddToWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) error {
	_, err := r.users.UpdateByID(ctx, userID, bson.D{{Key: "$addToSet", Value: bson.D{
		{Key: "watchHistory", Value: videoID},
	}}})
	if err != nil {
		return fmt.Errorf("add to watch history: %w", err)
	}
	return nil
}

// PullFromWatchHistories removes a deleted video from every user's history.
func (r *userRepository) PullFromWatchHistories(ctx context.Context, videoID primitive.ObjectID) (int64, error) {
	res, err := r.users.UpdateMany(ctx,
		bson.D{{Key: "watchHistory", Value: videoID}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "watchHistory", Value: videoID}}}},
	)
	if err != nil {
		return 0, fmt.Errorf("pull from watch histories: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *userRepository) WatchHistory(ctx context.Context, userID primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.VideoItem], error) {
	return paginate.Paginate[view.VideoItem](ctx, r.users, view.WatchHistory(userID), opts)
}
