package view

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotube/internal/dbmongo"
)

func CommentListing(videoID, viewer primitive.ObjectID) Pipeline {
	p := Pipeline{match(bson.D{{Key: "video", Value: videoID}})}
	p = p.With(ownerJoin()...)
	p = p.With(likesJoin("comment", viewer)...)
	return p.With(
		newestFirst(),
		project(fields("content", "owner", "createdAt", "likesCount", "isLiked", "ownerMatches")),
	)
}

func TweetListing(ownerID, viewer primitive.ObjectID) Pipeline {
	p := Pipeline{match(bson.D{{Key: "owner", Value: ownerID}})}
	p = p.With(ownerJoin()...)
	p = p.With(likesJoin("tweet", viewer)...)
	return p.With(
		newestFirst(),
		project(fields("content", "owner", "createdAt", "updatedAt", "likesCount", "isLiked", "ownerMatches")),
	)
}

// LikedVideos flattens a user's video likes into video items. Likes whose
// video is gone, or is another owner's draft, drop out at the unwind.
func LikedVideos(userID primitive.ObjectID) Pipeline {
	videoSub := []bson.D{match(publicationFilter(userID))}
	videoSub = append(videoSub, ownerJoin()...)
	videoSub = append(videoSub, project(fields(videoListFields...)))

	return Pipeline{
		match(bson.D{
			{Key: "likedBy", Value: userID},
			{Key: "video", Value: bson.D{{Key: "$exists", Value: true}, {Key: "$ne", Value: nil}}},
		}),
		newestFirst(),
		lookup(dbmongo.VideosCollection, "video", "_id", "video", videoSub...),
		{{Key: "$unwind", Value: "$video"}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$video"}}}},
	}
}
