package comment

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

type CommentRepository struct {
	comments *mongo.Collection
}

func NewCommentRepository(mc *dbmongo.MongoClient) *CommentRepository {
	return &CommentRepository{comments: mc.Collection(dbmongo.CommentsCollection)}
}

func (r *CommentRepository) CreateComment(ctx context.Context, c *dbmongo.Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := r.comments.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Comment, error) {
	var c dbmongo.Comment
	err := r.comments.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound("Comment")
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.comments.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count comments: %w", err)
	}
	return count > 0, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*dbmongo.Comment, error) {
	var c dbmongo.Comment
	err := r.comments.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound("Comment")
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound("Comment")
	}
	return nil
}

func (r *CommentRepository) ListComments(ctx context.Context, videoID, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.CommentItem], error) {
	return paginate.Paginate[view.CommentItem](ctx, r.comments, view.CommentListing(videoID, viewer), opts)
}

// CommentIDsByVideo is read by the video delete cascade before the comments
// themselves are removed.
func (r *CommentRepository) CommentIDsByVideo(ctx context.Context, videoID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.comments.Find(ctx,
		bson.D{{Key: "video", Value: videoID}},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find comment ids: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode comment ids: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *CommentRepository) DeleteCommentsByVideo(ctx context.Context, videoID primitive.ObjectID) (int64, error) {
	res, err := r.comments.DeleteMany(ctx, bson.D{{Key: "video", Value: videoID}})
	if err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}
	return res.DeletedCount, nil
}
