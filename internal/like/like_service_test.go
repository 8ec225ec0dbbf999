package like

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/view"
)

type fakeLikeRepo struct {
	rows    []dbmongo.Like
	creates int
}

func (r *fakeLikeRepo) matches(l dbmongo.Like, target dbmongo.LikeTarget, user primitive.ObjectID) bool {
	t, err := l.Target()
	return err == nil && t == target && l.LikedBy == user
}

func (r *fakeLikeRepo) FindLike(_ context.Context, target dbmongo.LikeTarget, user primitive.ObjectID) (*dbmongo.Like, error) {
	for _, l := range r.rows {
		if r.matches(l, target, user) {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeLikeRepo) CreateLike(_ context.Context, l *dbmongo.Like) error {
	r.creates++
	l.ID = primitive.NewObjectID()
	r.rows = append(r.rows, *l)
	return nil
}

func (r *fakeLikeRepo) DeleteUserLikes(_ context.Context, target dbmongo.LikeTarget, user primitive.ObjectID) (int64, error) {
	kept := r.rows[:0]
	var n int64
	for _, l := range r.rows {
		if r.matches(l, target, user) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.rows = kept
	return n, nil
}

func (r *fakeLikeRepo) LikedVideos(_ context.Context, user primitive.ObjectID) ([]view.VideoItem, error) {
	out := []view.VideoItem{}
	for _, l := range r.rows {
		if l.LikedBy == user && l.Video != nil {
			out = append(out, view.VideoItem{ID: *l.Video, OwnerMatches: 1})
		}
	}
	return out, nil
}

func (r *fakeLikeRepo) count(target dbmongo.LikeTarget, user primitive.ObjectID) int {
	n := 0
	for _, l := range r.rows {
		if r.matches(l, target, user) {
			n++
		}
	}
	return n
}

type existsSet struct {
	ids   map[primitive.ObjectID]bool
	calls int
}

func (e *existsSet) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	e.calls++
	return e.ids[id], nil
}

type fixture struct {
	repo                     *fakeLikeRepo
	videos, comments, tweets *existsSet
	svc                      *LikeService
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &fakeLikeRepo{},
		videos:   &existsSet{ids: map[primitive.ObjectID]bool{}},
		comments: &existsSet{ids: map[primitive.ObjectID]bool{}},
		tweets:   &existsSet{ids: map[primitive.ObjectID]bool{}},
	}
	f.svc = NewLikeService(f.repo, Targets{Videos: f.videos, Comments: f.comments, Tweets: f.tweets}, zap.NewNop())
	return f
}

func TestToggleLike_CreateRemoveRecreate(t *testing.T) {
	ctx := context.Background()
	user := primitive.NewObjectID()

	for _, kind := range []dbmongo.LikeTargetKind{dbmongo.LikeTargetVideo, dbmongo.LikeTargetComment, dbmongo.LikeTargetTweet} {
		t.Run(string(kind), func(t *testing.T) {
			f := newFixture()
			id := primitive.NewObjectID()
			f.videos.ids[id], f.comments.ids[id], f.tweets.ids[id] = true, true, true
			target := dbmongo.LikeTarget{Kind: kind, ID: id}

			for i, want := range []bool{true, false, true} {
				res, err := f.svc.ToggleLike(ctx, user, kind, id.Hex())
				require.NoError(t, err)
				assert.Equal(t, want, res.IsLiked, "toggle %d", i+1)
				if want {
					assert.Equal(t, 1, f.repo.count(target, user))
				} else {
					assert.Zero(t, f.repo.count(target, user))
				}
			}

			like, err := f.repo.FindLike(ctx, target, user)
			require.NoError(t, err)
			got, err := like.Target()
			require.NoError(t, err)
			assert.Equal(t, target, got)
		})
	}
}

func TestToggleLike_UnlikeHealsDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user, video := primitive.NewObjectID(), primitive.NewObjectID()
	f.videos.ids[video] = true
	target := dbmongo.VideoTarget(video)

	for i := 0; i < 2; i++ {
		l, err := dbmongo.NewLike(target, user, time.Now())
		require.NoError(t, err)
		require.NoError(t, f.repo.CreateLike(ctx, l))
	}
	other, err := dbmongo.NewLike(target, primitive.NewObjectID(), time.Now())
	require.NoError(t, err)
	require.NoError(t, f.repo.CreateLike(ctx, other))

	res, err := f.svc.ToggleLike(ctx, user, dbmongo.LikeTargetVideo, video.Hex())
	require.NoError(t, err)
	assert.False(t, res.IsLiked)
	assert.Zero(t, f.repo.count(target, user))
	assert.Len(t, f.repo.rows, 1, "other users' likes survive")
}

func TestToggleLike_Rejections(t *testing.T) {
	ctx := context.Background()
	user := primitive.NewObjectID()

	t.Run("invalid id never reaches the store", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ToggleLike(ctx, user, dbmongo.LikeTargetTweet, "nope")
		require.True(t, common.HasCode(err, common.ErrCodeInvalidIdentifier))
		assert.Equal(t, "Invalid tweet id", err.(*common.AppError).Message)
		assert.Zero(t, f.tweets.calls)
	})

	t.Run("missing target", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ToggleLike(ctx, user, dbmongo.LikeTargetComment, primitive.NewObjectID().Hex())
		require.True(t, common.HasCode(err, common.ErrCodeNotFound))
		assert.Equal(t, "Comment not found", err.(*common.AppError).Message)
		assert.Zero(t, f.repo.creates)
	})

	t.Run("unsupported kind", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ToggleLike(ctx, user, "playlist", primitive.NewObjectID().Hex())
		require.True(t, common.HasCode(err, common.ErrCodeValidationFailed))
	})
}

func TestGetLikedVideos(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user, video := primitive.NewObjectID(), primitive.NewObjectID()
	f.videos.ids[video] = true

	empty, err := f.svc.GetLikedVideos(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.svc.ToggleLike(ctx, user, dbmongo.LikeTargetVideo, video.Hex())
	require.NoError(t, err)

	liked, err := f.svc.GetLikedVideos(ctx, user)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, video, liked[0].ID)
}
