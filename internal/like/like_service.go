package like

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/view"
)

type Likes interface {
	FindLike(ctx context.Context, target dbmongo.LikeTarget, userID primitive.ObjectID) (*dbmongo.Like, error)
	CreateLike(ctx context.Context, l *dbmongo.Like) error
	DeleteUserLikes(ctx context.Context, target dbmongo.LikeTarget, userID primitive.ObjectID) (int64, error)
	LikedVideos(ctx context.Context, userID primitive.ObjectID) ([]view.VideoItem, error)
}

type TargetLookup interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Targets resolves existence for each likeable kind.
type Targets struct {
	Videos   TargetLookup
	Comments TargetLookup
	Tweets   TargetLookup
}

func (t Targets) lookup(kind dbmongo.LikeTargetKind) (TargetLookup, string) {
	switch kind {
	case dbmongo.LikeTargetVideo:
		return t.Videos, "Video"
	case dbmongo.LikeTargetComment:
		return t.Comments, "Comment"
	case dbmongo.LikeTargetTweet:
		return t.Tweets, "Tweet"
	}
	return nil, ""
}

type ToggleResult struct {
	IsLiked bool `json:"isLiked"`
}

type LikeService struct {
	likes   Likes
	targets Targets
	now     func() time.Time
	logger  *zap.Logger
}

func NewLikeService(likes Likes, targets Targets, logger *zap.Logger) *LikeService {
	return &LikeService{likes: likes, targets: targets, now: time.Now, logger: logger}
}

// ToggleLike flips the actor's like on the target. Two concurrent likes may
// both insert; the next unlike removes them all.
func (s *LikeService) ToggleLike(ctx context.Context, actor primitive.ObjectID, kind dbmongo.LikeTargetKind, rawID string) (*ToggleResult, error) {
	lookup, resource := s.targets.lookup(kind)
	if lookup == nil {
		return nil, common.ErrValidation(fmt.Sprintf("unsupported like target %q", kind))
	}
	id, err := common.ParseID(string(kind)+" id", rawID)
	if err != nil {
		return nil, err
	}
	ok, err := lookup.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNotFound(resource)
	}

	target := dbmongo.LikeTarget{Kind: kind, ID: id}
	existing, err := s.likes.FindLike(ctx, target, actor)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		removed, err := s.likes.DeleteUserLikes(ctx, target, actor)
		if err != nil {
			return nil, err
		}
		if removed > 1 {
			s.logger.Warn("removed duplicate likes",
				zap.String("target", string(kind)),
				zap.String("target_id", id.Hex()),
				zap.Int64("count", removed),
			)
		}
		return &ToggleResult{IsLiked: false}, nil
	}

	l, err := dbmongo.NewLike(target, actor, s.now().UTC())
	if err != nil {
		return nil, common.ErrValidation(err.Error())
	}
	if err := s.likes.CreateLike(ctx, l); err != nil {
		return nil, err
	}
	return &ToggleResult{IsLiked: true}, nil
}

// GetLikedVideos returns the videos the actor liked, newest like first.
func (s *LikeService) GetLikedVideos(ctx context.Context, actor primitive.ObjectID) ([]view.VideoItem, error) {
	items, err := s.likes.LikedVideos(ctx, actor)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		view.CheckSingular(s.logger, "video", item.ID, item.OwnerMatches)
	}
	return items, nil
}
