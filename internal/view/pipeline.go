// Package view builds the fixed aggregation pipelines that denormalize
// entities for read paths. Builders are pure: each call returns a fresh
// Pipeline and no builder keeps state between requests.
package view

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gotube/internal/dbmongo"
)

// Pipeline is an ordered list of aggregation stages.
type Pipeline []bson.D

// With returns a new pipeline with stages appended; p is left untouched.
func (p Pipeline) With(stages ...bson.D) Pipeline {
	out := make(Pipeline, 0, len(p)+len(stages))
	out = append(out, p...)
	return append(out, stages...)
}

func (p Pipeline) Mongo() mongo.Pipeline {
	return mongo.Pipeline(p)
}

// StageNames lists the operator of each stage, e.g. ["$match", "$lookup"].
func (p Pipeline) StageNames() []string {
	names := make([]string, 0, len(p))
	for _, s := range p {
		if len(s) > 0 {
			names = append(names, s[0].Key)
		}
	}
	return names
}

var (
	trimmedOwner = bson.D{
		{Key: "username", Value: 1},
		{Key: "fullName", Value: 1},
		{Key: "avatar", Value: 1},
	}
)

func match(filter bson.D) bson.D {
	return bson.D{{Key: "$match", Value: filter}}
}

func lookup(from, localField, foreignField, as string, sub ...bson.D) bson.D {
	spec := bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}
	if len(sub) > 0 {
		spec = append(spec, bson.E{Key: "pipeline", Value: mongo.Pipeline(sub)})
	}
	return bson.D{{Key: "$lookup", Value: spec}}
}

func project(fields bson.D) bson.D {
	return bson.D{{Key: "$project", Value: fields}}
}

func addFields(fields bson.D) bson.D {
	return bson.D{{Key: "$addFields", Value: fields}}
}

func sortStage(keys bson.D) bson.D {
	return bson.D{{Key: "$sort", Value: keys}}
}

func newestFirst() bson.D {
	return sortStage(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}

func size(field string) bson.D {
	return bson.D{{Key: "$size", Value: field}}
}

// viewerFlag tests membership of viewer in the joined reactor ids at path.
// Anonymous viewers always get a literal false.
func viewerFlag(viewer primitive.ObjectID, path string) interface{} {
	if viewer.IsZero() {
		return bson.D{{Key: "$literal", Value: false}}
	}
	return bson.D{{Key: "$cond", Value: bson.D{
		{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{viewer, path}}}},
		{Key: "then", Value: true},
		{Key: "else", Value: false},
	}}}
}

// ownerJoin embeds the owner profile as a single object. The joined array
// size is kept in ownerMatches so decoders can flag duplicate owner rows.
func ownerJoin(ownerProjection ...bson.D) []bson.D {
	sub := []bson.D{project(trimmedOwner)}
	if len(ownerProjection) > 0 {
		sub = ownerProjection
	}
	return []bson.D{
		lookup(dbmongo.UsersCollection, "owner", "_id", "owner", sub...),
		addFields(bson.D{
			{Key: "ownerMatches", Value: size("$owner")},
			{Key: "owner", Value: bson.D{{Key: "$first", Value: "$owner"}}},
		}),
	}
}

// likesJoin adds likesCount and isLiked from likes whose targetField points
// at the current document.
func likesJoin(targetField string, viewer primitive.ObjectID) []bson.D {
	return []bson.D{
		lookup(dbmongo.LikesCollection, "_id", targetField, "likes",
			project(bson.D{{Key: "likedBy", Value: 1}}),
		),
		addFields(bson.D{
			{Key: "likesCount", Value: size("$likes")},
			{Key: "isLiked", Value: viewerFlag(viewer, "$likes.likedBy")},
		}),
	}
}

func fields(names ...string) bson.D {
	d := make(bson.D, 0, len(names))
	for _, n := range names {
		d = append(d, bson.E{Key: n, Value: 1})
	}
	return d
}

// CheckSingular reports whether a one-to-one join produced at most one row.
// More than one is a data-integrity defect and gets logged.
func CheckSingular(logger *zap.Logger, entity string, id primitive.ObjectID, matches int) bool {
	if matches <= 1 {
		return true
	}
	if logger != nil {
		logger.Error("one-to-one join matched multiple rows",
			zap.String("entity", entity),
			zap.String("id", id.Hex()),
			zap.Int("matches", matches),
		)
	}
	return false
}
