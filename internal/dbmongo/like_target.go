package dbmongo

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LikeTargetKind string

const (
	LikeTargetVideo   LikeTargetKind = "video"
	LikeTargetComment LikeTargetKind = "comment"
	LikeTargetTweet   LikeTargetKind = "tweet"
)

func (k LikeTargetKind) IsValid() bool {
	return k == LikeTargetVideo || k == LikeTargetComment || k == LikeTargetTweet
}

var (
	ErrInvalidLikeTarget = errors.New("like must reference exactly one of video, comment or tweet")
)

// LikeTarget names the single entity a like points at.
type LikeTarget struct {
	Kind LikeTargetKind
	ID   primitive.ObjectID
}

func VideoTarget(id primitive.ObjectID) LikeTarget   { return LikeTarget{Kind: LikeTargetVideo, ID: id} }
func CommentTarget(id primitive.ObjectID) LikeTarget { return LikeTarget{Kind: LikeTargetComment, ID: id} }
func TweetTarget(id primitive.ObjectID) LikeTarget   { return LikeTarget{Kind: LikeTargetTweet, ID: id} }

func (t LikeTarget) Validate() error {
	if !t.Kind.IsValid() || t.ID.IsZero() {
		return ErrInvalidLikeTarget
	}
	return nil
}

// Filter matches every like on the target.
func (t LikeTarget) Filter() bson.D {
	return bson.D{{Key: string(t.Kind), Value: t.ID}}
}

// FilterBy matches the likes of one user on the target.
func (t LikeTarget) FilterBy(userID primitive.ObjectID) bson.D {
	return append(t.Filter(), bson.E{Key: "likedBy", Value: userID})
}

// NewLike builds a like with exactly one target reference populated.
func NewLike(target LikeTarget, likedBy primitive.ObjectID, now time.Time) (*Like, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if likedBy.IsZero() {
		return nil, errors.New("like requires a user")
	}

	id := target.ID
	like := &Like{LikedBy: likedBy, CreatedAt: now, UpdatedAt: now}
	switch target.Kind {
	case LikeTargetVideo:
		like.Video = &id
	case LikeTargetComment:
		like.Comment = &id
	case LikeTargetTweet:
		like.Tweet = &id
	}
	return like, nil
}

// Target returns the like's single target, or an error when zero or several
// references are set.
func (l *Like) Target() (LikeTarget, error) {
	var (
		found []LikeTarget
	)
	if l.Video != nil {
		found = append(found, VideoTarget(*l.Video))
	}
	if l.Comment != nil {
		found = append(found, CommentTarget(*l.Comment))
	}
	if l.Tweet != nil {
		found = append(found, TweetTarget(*l.Tweet))
	}
	if len(found) != 1 {
		return LikeTarget{}, ErrInvalidLikeTarget
	}
	return found[0], nil
}
