package comment

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/lifecycle"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type Comments interface {
	CreateComment(ctx context.Context, c *dbmongo.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Comment, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*dbmongo.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	ListComments(ctx context.Context, videoID, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.CommentItem], error)
}

// VideoLookup confirms a video exists before comments are read or written.
type VideoLookup interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type LikeCleaner interface {
	DeleteLikesByTarget(ctx context.Context, target dbmongo.LikeTarget) (int64, error)
}

type CommentService struct {
	comments Comments
	videos   VideoLookup
	likes    LikeCleaner
	steps    lifecycle.Observer
	logger   *zap.Logger
}

func NewCommentService(comments Comments, videos VideoLookup, likes LikeCleaner, steps lifecycle.Observer, logger *zap.Logger) *CommentService {
	return &CommentService{comments: comments, videos: videos, likes: likes, steps: steps, logger: logger}
}

func (s *CommentService) requireVideo(ctx context.Context, videoID primitive.ObjectID) error {
	ok, err := s.videos.Exists(ctx, videoID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotFound("Video")
	}
	return nil
}

func (s *CommentService) GetVideoComments(ctx context.Context, rawVideoID string, viewer primitive.ObjectID, opts paginate.Options) (*paginate.Page[view.CommentItem], error) {
	videoID, err := common.ParseID("video id", rawVideoID)
	if err != nil {
		return nil, err
	}
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	page, err := s.comments.ListComments(ctx, videoID, viewer, opts)
	if err != nil {
		return nil, err
	}
	for _, item := range page.Items {
		view.CheckSingular(s.logger, "comment", item.ID, item.OwnerMatches)
	}
	return page, nil
}

func (s *CommentService) AddComment(ctx context.Context, actor primitive.ObjectID, rawVideoID, content string) (*dbmongo.Comment, error) {
	videoID, err := common.ParseID("video id", rawVideoID)
	if err != nil {
		return nil, err
	}
	if err := common.RequireFields("Content is required", common.Field{Name: "content", Value: content}); err != nil {
		return nil, err
	}
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &dbmongo.Comment{
		Content:   strings.TrimSpace(content),
		Video:     videoID,
		Owner:     actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, actor primitive.ObjectID, rawCommentID, content string) (*dbmongo.Comment, error) {
	commentID, err := common.ParseID("comment id", rawCommentID)
	if err != nil {
		return nil, err
	}
	if err := common.RequireFields("Content is required", common.Field{Name: "content", Value: content}); err != nil {
		return nil, err
	}

	current, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := common.AuthorizeOwner(actor, current.Owner, "update this comment"); err != nil {
		return nil, err
	}
	return s.comments.UpdateContent(ctx, commentID, strings.TrimSpace(content))
}

// DeleteComment removes the comment and then its likes. A failure removing
// likes is logged and does not fail the request.
func (s *CommentService) DeleteComment(ctx context.Context, actor primitive.ObjectID, rawCommentID string) (*dbmongo.Comment, error) {
	commentID, err := common.ParseID("comment id", rawCommentID)
	if err != nil {
		return nil, err
	}
	current, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := common.AuthorizeOwner(actor, current.Owner, "delete this comment"); err != nil {
		return nil, err
	}

	report := lifecycle.New("delete-comment", s.logger.With(zap.String("comment_id", commentID.Hex())), s.steps).
		Critical("delete-comment", func(ctx context.Context) error {
			return s.comments.DeleteComment(ctx, commentID)
		}).
		Recoverable("delete-comment-likes", func(ctx context.Context) error {
			_, err := s.likes.DeleteLikesByTarget(ctx, dbmongo.CommentTarget(commentID))
			return err
		}).
		Run(ctx)
	if err := report.FatalErr(); err != nil {
		return nil, err
	}
	return current, nil
}
