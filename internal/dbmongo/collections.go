package dbmongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection         = "users"
	VideosCollection        = "videos"
	CommentsCollection      = "comments"
	TweetsCollection        = "tweets"
	LikesCollection         = "likes"
	SubscriptionsCollection = "subscriptions"
)

// IndexPlan lists the secondary indexes each collection needs. Likes are never
// uniquely indexed on (user, target): duplicates under concurrent toggles are
// tolerated and healed by the next unlike.
func IndexPlan() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		VideosCollection: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "createdAt", Value: -1}}},
			{
				Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
				Options: options.Index().SetName("videos_text"),
			},
		},
		CommentsCollection: {
			{Keys: bson.D{{Key: "video", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
		TweetsCollection: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		LikesCollection: {
			{Keys: bson.D{{Key: "video", Value: 1}, {Key: "likedBy", Value: 1}}},
			{Keys: bson.D{{Key: "comment", Value: 1}, {Key: "likedBy", Value: 1}}},
			{Keys: bson.D{{Key: "tweet", Value: 1}, {Key: "likedBy", Value: 1}}},
			{Keys: bson.D{{Key: "likedBy", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		SubscriptionsCollection: {
			{Keys: bson.D{{Key: "channel", Value: 1}, {Key: "subscriber", Value: 1}}},
			{Keys: bson.D{{Key: "subscriber", Value: 1}}},
		},
	}
}

// EnsureIndexes creates every index of IndexPlan and returns the created names.
func EnsureIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	var created []string
	for coll, models := range IndexPlan() {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return created, fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		for _, n := range names {
			created = append(created, coll+"."+n)
		}
	}
	return created, nil
}
