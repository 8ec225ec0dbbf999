package view

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotube/internal/dbmongo"
)

// ChannelStatsPipeline runs against users and sums the channel's subscribers and,
// over all its videos, views, likes and comments.
func ChannelStatsPipeline(channelID primitive.ObjectID) Pipeline {
	return Pipeline{
		match(bson.D{{Key: "_id", Value: channelID}}),
		lookup(dbmongo.SubscriptionsCollection, "_id", "channel", "subscribers",
			project(bson.D{{Key: "_id", Value: 1}}),
		),
		lookup(dbmongo.VideosCollection, "_id", "owner", "videos",
			lookup(dbmongo.LikesCollection, "_id", "video", "likes", project(bson.D{{Key: "_id", Value: 1}})),
			lookup(dbmongo.CommentsCollection, "_id", "video", "comments", project(bson.D{{Key: "_id", Value: 1}})),
			project(bson.D{
				{Key: "views", Value: 1},
				{Key: "likesCount", Value: size("$likes")},
				{Key: "commentsCount", Value: size("$comments")},
			}),
		),
		project(bson.D{
			{Key: "_id", Value: 0},
			{Key: "totalSubscribers", Value: size("$subscribers")},
			{Key: "totalVideos", Value: size("$videos")},
			{Key: "totalViews", Value: bson.D{{Key: "$sum", Value: "$videos.views"}}},
			{Key: "totalLikes", Value: bson.D{{Key: "$sum", Value: "$videos.likesCount"}}},
			{Key: "totalComments", Value: bson.D{{Key: "$sum", Value: "$videos.commentsCount"}}},
		}),
	}
}

// channelProfile joins a user with its subscriber count; viewer decides isSubscribed.
func channelProfile(viewer primitive.ObjectID) []bson.D {
	return []bson.D{
		lookup(dbmongo.SubscriptionsCollection, "_id", "channel", "subscribers",
			project(bson.D{{Key: "subscriber", Value: 1}}),
		),
		addFields(bson.D{
			{Key: "subscribersCount", Value: size("$subscribers")},
			{Key: "isSubscribed", Value: viewerFlag(viewer, "$subscribers.subscriber")},
		}),
		project(fields("username", "fullName", "avatar", "subscribersCount", "isSubscribed")),
	}
}

// SubscriberList resolves the subscribers of a channel into channel profiles.
func SubscriberList(channelID, viewer primitive.ObjectID) Pipeline {
	return Pipeline{
		match(bson.D{{Key: "channel", Value: channelID}}),
		newestFirst(),
		lookup(dbmongo.UsersCollection, "subscriber", "_id", "profile", channelProfile(viewer)...),
		{{Key: "$unwind", Value: "$profile"}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$profile"}}}},
	}
}

// SubscribedChannels resolves the channels a user follows.
func SubscribedChannels(subscriberID, viewer primitive.ObjectID) Pipeline {
	return Pipeline{
		match(bson.D{{Key: "subscriber", Value: subscriberID}}),
		newestFirst(),
		lookup(dbmongo.UsersCollection, "channel", "_id", "profile", channelProfile(viewer)...),
		{{Key: "$unwind", Value: "$profile"}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$profile"}}}},
	}
}
