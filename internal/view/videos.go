package view

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
)

var sortableVideoFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"views":     true,
	"duration":  true,
	"title":     true,
}

// ListConfig drives VideoListing. Zero values mean no search, every owner,
// anonymous viewer and newest first.
type ListConfig struct {
	Query       string
	OwnerID     primitive.ObjectID
	Viewer      primitive.ObjectID
	SortBy      string
	SortType    string
	SearchIndex string
}

func (c ListConfig) sortSpec() (bson.D, error) {
	key := c.SortBy
	if key == "" {
		key = "createdAt"
	}
	if !sortableVideoFields[key] {
		return nil, common.ErrValidation("Invalid sort field",
			"sortBy must be one of "+strings.Join(common.SortKeys(sortableVideoFields), ", "))
	}

	dir := -1
	switch strings.ToLower(c.SortType) {
	case "", "desc":
	case "asc":
		dir = 1
	default:
		return nil, common.ErrValidation("Invalid sort type", "sortType must be asc or desc")
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}}, nil
}

// publicationFilter hides unpublished videos from everyone but their owner.
func publicationFilter(viewer primitive.ObjectID) bson.D {
	if viewer.IsZero() {
		return bson.D{{Key: "isPublished", Value: true}}
	}
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "isPublished", Value: true}},
		bson.D{{Key: "owner", Value: viewer}},
	}}}
}

var videoListFields = []string{
	"videoFile", "thumbnail", "title", "description", "duration",
	"views", "isPublished", "owner", "createdAt", "ownerMatches",
}

// VideoListing builds the public video listing. A search stage, when present,
// must be the first stage of the pipeline.
func VideoListing(cfg ListConfig) (Pipeline, error) {
	sortKeys, err := cfg.sortSpec()
	if err != nil {
		return nil, err
	}

	var p Pipeline
	if q := strings.TrimSpace(cfg.Query); q != "" {
		index := cfg.SearchIndex
		if index == "" {
			index = "search-videos"
		}
		p = p.With(bson.D{{Key: "$search", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "text", Value: bson.D{
				{Key: "query", Value: q},
				{Key: "path", Value: bson.A{"title", "description"}},
				{Key: "fuzzy", Value: bson.D{{Key: "maxEdits", Value: 1}}},
			}},
		}}})
	}

	filter := publicationFilter(cfg.Viewer)
	if !cfg.OwnerID.IsZero() {
		filter = append(filter, bson.E{Key: "owner", Value: cfg.OwnerID})
	}
	p = p.With(match(filter), sortStage(sortKeys))
	p = p.With(ownerJoin()...)
	return p.With(project(fields(videoListFields...))), nil
}

// VideoDetailPipeline joins the owner's channel profile and the video's likes.
func VideoDetailPipeline(videoID, viewer primitive.ObjectID) Pipeline {
	p := Pipeline{match(bson.D{{Key: "_id", Value: videoID}})}
	p = p.With(likesJoin("video", viewer)...)
	p = p.With(ownerJoin(channelProfile(viewer)...)...)
	return p.With(project(fields(
		"videoFile", "thumbnail", "title", "description", "duration", "views",
		"isPublished", "owner", "createdAt", "likesCount", "isLiked", "ownerMatches",
	)))
}

// ChannelVideos lists every video of a channel, drafts included, with like counts.
func ChannelVideos(channelID primitive.ObjectID) Pipeline {
	p := Pipeline{match(bson.D{{Key: "owner", Value: channelID}})}
	p = p.With(
		lookup(dbmongo.LikesCollection, "_id", "video", "likes", project(bson.D{{Key: "_id", Value: 1}})),
		addFields(bson.D{{Key: "likesCount", Value: size("$likes")}}),
		newestFirst(),
	)
	return p.With(project(fields(
		"videoFile", "thumbnail", "title", "description", "duration",
		"views", "isPublished", "createdAt", "likesCount",
	)))
}

// WatchHistory resolves a user's watch history into videos, preserving
// insertion order and dropping entries whose video no longer exists.
func WatchHistory(userID primitive.ObjectID) Pipeline {
	videoSub := []bson.D{match(publicationFilter(userID))}
	videoSub = append(videoSub, ownerJoin()...)
	videoSub = append(videoSub, project(fields(videoListFields...)))
	return Pipeline{
		match(bson.D{{Key: "_id", Value: userID}}),
		project(bson.D{{Key: "watchHistory", Value: 1}}),
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$watchHistory"},
			{Key: "includeArrayIndex", Value: "position"},
		}}},
		lookup(dbmongo.VideosCollection, "watchHistory", "_id", "video", videoSub...),
		{{Key: "$unwind", Value: "$video"}},
		sortStage(bson.D{{Key: "position", Value: 1}}),
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$video"}}}},
	}
}
