package video

import (
	"context"
	"fmt"
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

// Videos is the persistence the video service needs.
type Videos interface {
	CreateVideo(ctx context.Context, v *dbmongo.Video) error
	GetVideoByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Video, error)
	UpdateVideo(ctx context.Context, id primitive.ObjectID, changes VideoChanges) (*dbmongo.Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	DeleteVideo(ctx context.Context, id primitive.ObjectID) error
	VideoDetail(ctx context.Context, id, viewer primitive.ObjectID) (*view.VideoDetail, error)
	ListVideos(ctx context.Context, cfg view.ListConfig, opts paginate.Options) (*paginate.Page[view.VideoItem], error)
}

// CommentCleaner removes the comments of a deleted video.
type CommentCleaner interface {
	CommentIDsByVideo(ctx context.Context, videoID primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteCommentsByVideo(ctx context.Context, videoID primitive.ObjectID) (int64, error)
}

// LikeCleaner removes likes pointing at deleted entities.
type LikeCleaner interface {
	DeleteLikesByTarget(ctx context.Context, target dbmongo.LikeTarget) (int64, error)
	DeleteLikesByComments(ctx context.Context, commentIDs []primitive.ObjectID) (int64, error)
}

// WatchHistory records and prunes the videos users have watched.
type WatchHistory interface {
	AddToWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) error
	PullFromWatchHistories(ctx context.Context, videoID primitive.ObjectID) (int64, error)
}

type Settings struct {
	SearchIndex string
	UploadDir   string
}

const (
	stepDeleteVideo        = "delete-video"
	stepDeleteVideoLikes   = "delete-video-likes"
	stepDeleteCommentLikes = "delete-comment-likes"
	stepDeleteComments     = "delete-comments"
	stepPullWatchHistory   = "pull-watch-history"
	stepDeleteVideoFile    = "delete-video-file"
	stepDeleteThumbnail    = "delete-thumbnail"
)

type VideoService struct {
	videos   Videos
	comments CommentCleaner
	likes    LikeCleaner
	history  WatchHistory
	assets   common.AssetStore
	orphans  common.OrphanRecorder
	steps    lifecycle.Observer
	settings Settings
	logger   *zap.Logger
}

func NewVideoService(
	videos Videos,
	comments CommentCleaner,
	likes LikeCleaner,
	history WatchHistory,
	assets common.AssetStore,
	orphans common.OrphanRecorder,
	steps lifecycle.Observer,
	settings Settings,
	logger *zap.Logger,
) *VideoService {
	return &VideoService{
		videos:   videos,
		comments: comments,
		likes:    likes,
		history:  history,
		assets:   assets,
		orphans:  orphans,
		steps:    steps,
		settings: settings,
		logger:   logger,
	}
}

type ListQuery struct {
	Query    string
	UserID   string
	SortBy   string
	SortType string
	Viewer   primitive.ObjectID
}

func (s *VideoService) ListVideos(ctx context.Context, q ListQuery, opts paginate.Options) (*paginate.Page[view.VideoItem], error) {
	ownerID, _, err := common.ParseOptionalID("user id", q.UserID)
	if err != nil {
		return nil, err
	}

	page, err := s.videos.ListVideos(ctx, view.ListConfig{
		Query:       q.Query,
		OwnerID:     ownerID,
		Viewer:      q.Viewer,
		SortBy:      q.SortBy,
		SortType:    q.SortType,
		SearchIndex: s.settings.SearchIndex,
	}, opts)
	if err != nil {
		return nil, err
	}
	for _, item := range page.Items {
		view.CheckSingular(s.logger, "video", item.ID, item.OwnerMatches)
	}
	return page, nil
}

type PublishInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

// PublishVideo uploads both local files and creates the video. If either
// upload or the insert fails, assets already uploaded are removed best-effort.
func (s *VideoService) PublishVideo(ctx context.Context, owner primitive.ObjectID, in PublishInput) (*dbmongo.Video, error) {
	defer common.DiscardUploads(in.VideoPath, in.ThumbnailPath)

	if err := common.RequireFields("Title and description are required",
		common.Field{Name: "title", Value: in.Title},
		common.Field{Name: "description", Value: in.Description},
	); err != nil {
		return nil, err
	}
	if in.VideoPath == "" || in.ThumbnailPath == "" {
		return nil, common.ErrValidation("Video file and thumbnail are required")
	}

	videoAsset, err := s.assets.Upload(ctx, in.VideoPath, common.AssetKindVideo)
	if err != nil {
		return nil, common.ErrDependency("Error uploading video file", err)
	}
	thumbAsset, err := s.assets.Upload(ctx, in.ThumbnailPath, common.AssetKindImage)
	if err != nil {
		s.discardAsset(ctx, videoAsset.URL, common.AssetKindVideo)
		return nil, common.ErrDependency("Error uploading thumbnail", err)
	}

	v, err := s.CreateVideo(ctx, owner, in.Title, in.Description, videoAsset, thumbAsset)
	if err != nil {
		s.discardAsset(ctx, videoAsset.URL, common.AssetKindVideo)
		s.discardAsset(ctx, thumbAsset.URL, common.AssetKindImage)
		return nil, err
	}
	return v, nil
}

// CreateVideo persists a video whose assets are already uploaded.
func (s *VideoService) CreateVideo(ctx context.Context, owner primitive.ObjectID, title, description string, videoFile, thumbnail *common.UploadedAsset) (*dbmongo.Video, error) {
	if err := common.RequireFields("Title and description are required",
		common.Field{Name: "title", Value: title},
		common.Field{Name: "description", Value: description},
	); err != nil {
		return nil, err
	}
	if videoFile == nil || thumbnail == nil || videoFile.URL == "" || thumbnail.URL == "" {
		return nil, common.ErrValidation("Video file and thumbnail are required")
	}
	if owner.IsZero() {
		return nil, common.ErrUnauthorized("authorization required")
	}

	now := time.Now().UTC()
	v := &dbmongo.Video{
		VideoFile:   videoFile.URL,
		Thumbnail:   thumbnail.URL,
		Owner:       owner,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Duration:    videoFile.Duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.videos.CreateVideo(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Info("video published", zap.String("video_id", v.ID.Hex()), zap.String("owner_id", owner.Hex()))
	return v, nil
}

// GetVideo returns the video detail view. Owners always see their video and
// only get it added to their history; everyone else is refused a draft, and
// a successful read counts a view.
func (s *VideoService) GetVideo(ctx context.Context, rawID string, viewer primitive.ObjectID) (*view.VideoDetail, error) {
	videoID, err := common.ParseID("video id", rawID)
	if err != nil {
		return nil, err
	}

	detail, err := s.videos.VideoDetail(ctx, videoID, viewer)
	if err != nil {
		return nil, err
	}
	view.CheckSingular(s.logger, "video", detail.ID, detail.OwnerMatches)

	isOwner := !viewer.IsZero() && detail.Owner != nil && detail.Owner.ID == viewer
	if isOwner {
		s.recordWatch(ctx, viewer, videoID)
		return detail, nil
	}
	if !detail.IsPublished {
		return nil, common.ErrForbidden("Video is not published")
	}

	if err := s.videos.IncrementViews(ctx, videoID); err != nil {
		s.logger.Warn("view count not incremented", zap.String("video_id", videoID.Hex()), zap.Error(err))
	} else {
		detail.Views++
	}
	if !viewer.IsZero() {
		s.recordWatch(ctx, viewer, videoID)
	}
	return detail, nil
}

func (s *VideoService) recordWatch(ctx context.Context, userID, videoID primitive.ObjectID) {
	if err := s.history.AddToWatchHistory(ctx, userID, videoID); err != nil {
		s.logger.Warn("watch history not updated",
			zap.String("user_id", userID.Hex()),
			zap.String("video_id", videoID.Hex()),
			zap.Error(err),
		)
	}
}

type UpdateInput struct {
	Title         string
	Description   string
	ThumbnailPath string
}

// UpdateVideo rewrites title and description and, when a new thumbnail is
// supplied, swaps the thumbnail pointer and deletes the old asset.
func (s *VideoService) UpdateVideo(ctx context.Context, actor primitive.ObjectID, rawID string, in UpdateInput) (*dbmongo.Video, error) {
	defer common.DiscardUploads(in.ThumbnailPath)

	videoID, err := common.ParseID("video id", rawID)
	if err != nil {
		return nil, err
	}
	if err := common.RequireFields("Title and description are required",
		common.Field{Name: "title", Value: in.Title},
		common.Field{Name: "description", Value: in.Description},
	); err != nil {
		return nil, err
	}

	current, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := common.AuthorizeOwner(actor, current.Owner, "update this video"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	changes := VideoChanges{Title: &title, Description: &description}

	var newThumb *common.UploadedAsset
	if in.ThumbnailPath != "" {
		newThumb, err = s.assets.Upload(ctx, in.ThumbnailPath, common.AssetKindImage)
		if err != nil {
			return nil, common.ErrDependency("Error uploading thumbnail", err)
		}
		changes.Thumbnail = &newThumb.URL
	}

	updated, err := s.videos.UpdateVideo(ctx, videoID, changes)
	if err != nil {
		if newThumb != nil {
			s.discardAsset(ctx, newThumb.URL, common.AssetKindImage)
		}
		return nil, err
	}

	if newThumb != nil && current.Thumbnail != "" && current.Thumbnail != newThumb.URL {
		s.discardAsset(ctx, current.Thumbnail, common.AssetKindImage)
	}
	return updated, nil
}

func (s *VideoService) TogglePublishStatus(ctx context.Context, actor primitive.ObjectID, rawID string) (*dbmongo.Video, error) {
	videoID, err := common.ParseID("video id", rawID)
	if err != nil {
		return nil, err
	}
	current, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := common.AuthorizeOwner(actor, current.Owner, "toggle the publish status of this video"); err != nil {
		return nil, err
	}

	published := !current.IsPublished
	return s.videos.UpdateVideo(ctx, videoID, VideoChanges{IsPublished: &published})
}

// FailedAsset is an external asset the delete cascade could not remove.
type FailedAsset struct {
	Kind  common.AssetKind `json:"kind"`
	URL   string           `json:"url"`
	Error string           `json:"error"`
}

type DeleteResult struct {
	DeletedVideo *dbmongo.Video `json:"deletedVideo"`
	FailedAssets []FailedAsset  `json:"failedAssets"`
}

func (r *DeleteResult) Message() string {
	if len(r.FailedAssets) == 0 {
		return "Video deleted successfully"
	}
	return fmt.Sprintf("Video deleted, but %d assets failed to clean up", len(r.FailedAssets))
}

// DeleteVideo removes the video and everything that references it. Only the
// primary delete can fail the request; later steps are recorded and logged.
func (s *VideoService) DeleteVideo(ctx context.Context, actor primitive.ObjectID, rawID string) (*DeleteResult, error) {
	videoID, err := common.ParseID("video id", rawID)
	if err != nil {
		return nil, err
	}
	v, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := common.AuthorizeOwner(actor, v.Owner, "delete this video"); err != nil {
		return nil, err
	}

	wf := lifecycle.New("delete-video", s.logger.With(zap.String("video_id", videoID.Hex())), s.steps).
		Critical(stepDeleteVideo, func(ctx context.Context) error {
			return s.videos.DeleteVideo(ctx, videoID)
		}).
		Recoverable(stepDeleteVideoLikes, func(ctx context.Context) error {
			_, err := s.likes.DeleteLikesByTarget(ctx, dbmongo.VideoTarget(videoID))
			return err
		}).
		Recoverable(stepDeleteCommentLikes, func(ctx context.Context) error {
			ids, err := s.comments.CommentIDsByVideo(ctx, videoID)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return nil
			}
			_, err = s.likes.DeleteLikesByComments(ctx, ids)
			return err
		}).
		Recoverable(stepDeleteComments, func(ctx context.Context) error {
			_, err := s.comments.DeleteCommentsByVideo(ctx, videoID)
			return err
		}).
		Recoverable(stepPullWatchHistory, func(ctx context.Context) error {
			_, err := s.history.PullFromWatchHistories(ctx, videoID)
			return err
		}).
		Add(lifecycle.Step{
			Name:     stepDeleteVideoFile,
			Severity: lifecycle.Recoverable,
			Resource: v.VideoFile,
			Run: func(ctx context.Context) error {
				return s.assets.Delete(ctx, v.VideoFile, common.AssetKindVideo)
			},
		}).
		Add(lifecycle.Step{
			Name:     stepDeleteThumbnail,
			Severity: lifecycle.Recoverable,
			Resource: v.Thumbnail,
			Run: func(ctx context.Context) error {
				return s.assets.Delete(ctx, v.Thumbnail, common.AssetKindImage)
			},
		})

	report := wf.Run(ctx)
	if err := report.FatalErr(); err != nil {
		return nil, err
	}

	result := &DeleteResult{DeletedVideo: v, FailedAssets: []FailedAsset{}}
	for _, o := range report.Failed() {
		var kind common.AssetKind
		switch o.Step {
		case stepDeleteVideoFile:
			kind = common.AssetKindVideo
		case stepDeleteThumbnail:
			kind = common.AssetKindImage
		default:
			continue
		}
		s.orphans.OrphanedAsset(kind)
		result.FailedAssets = append(result.FailedAssets, FailedAsset{Kind: kind, URL: o.Resource, Error: o.Err.Error()})
	}
	return result, nil
}

// discardAsset deletes an asset nothing references any more. Failure leaves
// an orphan, which is logged and counted.
func (s *VideoService) discardAsset(ctx context.Context, url string, kind common.AssetKind) {
	if err := s.assets.Delete(context.WithoutCancel(ctx), url, kind); err != nil {
		s.orphans.OrphanedAsset(kind)
		s.logger.Warn("asset cleanup failed",
			zap.String("asset_url", url),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
	}
}
