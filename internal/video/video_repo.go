package video

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

type VideoRepository struct {
	videos *mongo.Collection
}

func NewVideoRepository(mc *dbmongo.MongoClient) *VideoRepository {
	return &VideoRepository{videos: mc.Collection(dbmongo.VideosCollection)}
}

func (r *VideoRepository) CreateVideo(ctx context.Context, v *dbmongo.Video) error {
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if _, err := r.videos.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetVideoByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Video, error) {
	var v dbmongo.Video
	err := r.videos.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound("Video")
	}
	if err != nil {
		return nil, fmt.Errorf("find video: %w", err)
	}
	return &v, nil
}

func (r *VideoRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := r.videos.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count videos: %w", err)
	}
	return count > 0, nil
}

// VideoChanges lists the mutable fields of a video; nil fields are left alone.
type VideoChanges struct {
	Title       *string
	Description *string
	Thumbnail   *string
	IsPublished *bool
}

func (c VideoChanges) set() bson.D {
	var set bson.D
	if c.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *c.Title})
	}
	if c.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *c.Description})
	}
	if c.Thumbnail != nil {
		set = append(set, bson.E{Key: "thumbnail", Value: *c.Thumbnail})
	}
	if c.IsPublished != nil {
		set = append(set, bson.E{Key: "isPublished", Value: *c.IsPublished})
	}
	return append(set, bson.E{Key: "updatedAt", Value: time.Now().UTC()})
}

// UpdateVideo applies changes in a single $set and returns the updated document.
func (r *VideoRepository) UpdateVideo(ctx context.Context, id primitive.ObjectID, changes VideoChanges) (*dbmongo.Video, error) {
	set := changes.set()

	var v dbmongo.Video
	err := r.videos.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound("Video")
	}
	if err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}
	return &v, nil
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.videos.UpdateByID(ctx, id, bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func (r *VideoRepository) DeleteVideo(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.videos.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound("Video")
	}
	return nil
}

func (r *VideoRepository) VideoDetail(ctx context.Context, id, viewer primitive.ObjectID) (*view.VideoDetail, error) {
	detail, err := paginate.One[view.VideoDetail](ctx, r.videos, view.VideoDetailPipeline(id, viewer))
	if errors.Is(err, paginate.ErrNoResult) {
		return nil, common.ErrNotFound("Video")
	}
	return detail, err
}

func (r *VideoRepository) ListVideos(ctx context.Context, cfg view.ListConfig, opts paginate.Options) (*paginate.Page[view.VideoItem], error) {
	p, err := view.VideoListing(cfg)
	if err != nil {
		return nil, err
	}
	return paginate.Paginate[view.VideoItem](ctx, r.videos, p, opts)
}

