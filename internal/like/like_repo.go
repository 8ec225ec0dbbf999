package like

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

type LikeRepository struct {
	likes *mongo.Collection
}

func NewLikeRepository(mc *dbmongo.MongoClient) *LikeRepository {
	return &LikeRepository{likes: mc.Collection(dbmongo.LikesCollection)}
}

// FindLike returns the user's like on target, or nil when there is none.
func (r *LikeRepository) FindLike(ctx context.Context, target dbmongo.LikeTarget, userID primitive.ObjectID) (*dbmongo.Like, error) {
	var l dbmongo.Like
	err := r.likes.FindOne(ctx, target.FilterBy(userID)).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}
	return &l, nil
}

func (r *LikeRepository) CreateLike(ctx context.Context, l *dbmongo.Like) error {
	if _, err := l.Target(); err != nil {
		return err
	}
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	if _, err := r.likes.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// DeleteUserLikes removes every like of the user on target, so duplicates
// left by concurrent toggles disappear together.
func (r *LikeRepository) DeleteUserLikes(ctx context.Context, target dbmongo.LikeTarget, userID primitive.ObjectID) (int64, error) {
	res, err := r.likes.DeleteMany(ctx, target.FilterBy(userID))
	if err != nil {
		return 0, fmt.Errorf("delete likes: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *LikeRepository) DeleteLikesByTarget(ctx context.Context, target dbmongo.LikeTarget) (int64, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	res, err := r.likes.DeleteMany(ctx, target.Filter())
	if err != nil {
		return 0, fmt.Errorf("delete %s likes: %w", target.Kind, err)
	}
	return res.DeletedCount, nil
}

func (r *LikeRepository) DeleteLikesByComments(ctx context.Context, commentIDs []primitive.ObjectID) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}
	res, err := r.likes.DeleteMany(ctx, bson.D{{Key: "comment", Value: bson.D{{Key: "$in", Value: commentIDs}}}})
	if err != nil {
		return 0, fmt.Errorf("delete comment likes: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *LikeRepository) LikedVideos(ctx context.Context, userID primitive.ObjectID) ([]view.VideoItem, error) {
	return paginate.All[view.VideoItem](ctx, r.likes, view.LikedVideos(userID))
}
