package view

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OwnerSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
	FullName string             `bson:"fullName" json:"fullName"`
	Avatar   string             `bson:"avatar" json:"avatar"`
}

// ChannelProfile is an owner summary with channel-level counts.
type ChannelProfile struct {
	ID               primitive.ObjectID `bson:"_id" json:"_id"`
	Username         string             `bson:"username" json:"username"`
	FullName         string             `bson:"fullName" json:"fullName"`
	Avatar           string             `bson:"avatar" json:"avatar"`
	SubscribersCount int64              `bson:"subscribersCount" json:"subscribersCount"`
	IsSubscribed     bool               `bson:"isSubscribed" json:"isSubscribed"`
}

type VideoDetail struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	VideoFile    string             `bson:"videoFile" json:"videoFile"`
	Thumbnail    string             `bson:"thumbnail" json:"thumbnail"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Duration     float64            `bson:"duration" json:"duration"`
	Views        int64              `bson:"views" json:"views"`
	IsPublished  bool               `bson:"isPublished" json:"isPublished"`
	Owner        *ChannelProfile    `bson:"owner" json:"owner"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	LikesCount   int64              `bson:"likesCount" json:"likesCount"`
	IsLiked      bool               `bson:"isLiked" json:"isLiked"`
	OwnerMatches int                `bson:"ownerMatches" json:"-"`
}

type VideoItem struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	VideoFile    string             `bson:"videoFile" json:"videoFile"`
	Thumbnail    string             `bson:"thumbnail" json:"thumbnail"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Duration     float64            `bson:"duration" json:"duration"`
	Views        int64              `bson:"views" json:"views"`
	IsPublished  bool               `bson:"isPublished" json:"isPublished"`
	Owner        *OwnerSummary      `bson:"owner" json:"owner"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	OwnerMatches int                `bson:"ownerMatches" json:"-"`
}

type CommentItem struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Content      string             `bson:"content" json:"content"`
	Owner        *OwnerSummary      `bson:"owner" json:"owner"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	LikesCount   int64              `bson:"likesCount" json:"likesCount"`
	IsLiked      bool               `bson:"isLiked" json:"isLiked"`
	OwnerMatches int                `bson:"ownerMatches" json:"-"`
}

type TweetItem struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Content      string             `bson:"content" json:"content"`
	Owner        *OwnerSummary      `bson:"owner" json:"owner"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
	LikesCount   int64              `bson:"likesCount" json:"likesCount"`
	IsLiked      bool               `bson:"isLiked" json:"isLiked"`
	OwnerMatches int                `bson:"ownerMatches" json:"-"`
}

type ChannelStats struct {
	TotalSubscribers int64 `bson:"totalSubscribers" json:"totalSubscribers"`
	TotalVideos      int64 `bson:"totalVideos" json:"totalVideos"`
	TotalViews       int64 `bson:"totalViews" json:"totalViews"`
	TotalLikes       int64 `bson:"totalLikes" json:"totalLikes"`
	TotalComments    int64 `bson:"totalComments" json:"totalComments"`
}

type ChannelVideo struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	VideoFile   string             `bson:"videoFile" json:"videoFile"`
	Thumbnail   string             `bson:"thumbnail" json:"thumbnail"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Duration    float64            `bson:"duration" json:"duration"`
	Views       int64              `bson:"views" json:"views"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	LikesCount  int64              `bson:"likesCount" json:"likesCount"`
}
