package video

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

// ---- In-memory store shared by the video, comment, like and history fakes ----

type memStore struct {
	mu        sync.Mutex
	videos    map[primitive.ObjectID]dbmongo.Video
	comments  map[primitive.ObjectID]dbmongo.Comment
	likes     map[primitive.ObjectID]dbmongo.Like
	histories map[primitive.ObjectID][]primitive.ObjectID

	calls       int
	failComment error
}

func newMemStore() *memStore {
	return &memStore{
		videos:    map[primitive.ObjectID]dbmongo.Video{},
		comments:  map[primitive.ObjectID]dbmongo.Comment{},
		likes:     map[primitive.ObjectID]dbmongo.Like{},
		histories: map[primitive.ObjectID][]primitive.ObjectID{},
	}
}

func (m *memStore) seedVideo(owner primitive.ObjectID, published bool) dbmongo.Video {
	v := dbmongo.Video{
		ID:          primitive.NewObjectID(),
		VideoFile:   "http://assets/video/" + primitive.NewObjectID().Hex() + ".mp4",
		Thumbnail:   "http://assets/image/" + primitive.NewObjectID().Hex() + ".png",
		Owner:       owner,
		Title:       "title",
		Description: "description",
		IsPublished: published,
		CreatedAt:   time.Now(),
	}
	m.videos[v.ID] = v
	return v
}

func (m *memStore) seedComment(videoID, owner primitive.ObjectID) dbmongo.Comment {
	c := dbmongo.Comment{ID: primitive.NewObjectID(), Video: videoID, Owner: owner, Content: "nice"}
	m.comments[c.ID] = c
	return c
}

func (m *memStore) seedLike(target dbmongo.LikeTarget, user primitive.ObjectID) {
	like, err := dbmongo.NewLike(target, user, time.Now())
	if err != nil {
		panic(err)
	}
	like.ID = primitive.NewObjectID()
	m.likes[like.ID] = *like
}

func (m *memStore) CreateVideo(_ context.Context, v *dbmongo.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	v.ID = primitive.NewObjectID()
	m.videos[v.ID] = *v
	return nil
}

func (m *memStore) GetVideoByID(_ context.Context, id primitive.ObjectID) (*dbmongo.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	v, ok := m.videos[id]
	if !ok {
		return nil, common.ErrNotFound("Video")
	}
	return &v, nil
}

func (m *memStore) UpdateVideo(_ context.Context, id primitive.ObjectID, c VideoChanges) (*dbmongo.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	v, ok := m.videos[id]
	if !ok {
		return nil, common.ErrNotFound("Video")
	}
	if c.Title != nil {
		v.Title = *c.Title
	}
	if c.Description != nil {
		v.Description = *c.Description
	}
	if c.Thumbnail != nil {
		v.Thumbnail = *c.Thumbnail
	}
	if c.IsPublished != nil {
		v.IsPublished = *c.IsPublished
	}
	m.videos[id] = v
	return &v, nil
}

func (m *memStore) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.videos[id]
	v.Views++
	m.videos[id] = v
	return nil
}

func (m *memStore) DeleteVideo(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[id]; !ok {
		return common.ErrNotFound("Video")
	}
	delete(m.videos, id)
	return nil
}

func (m *memStore) VideoDetail(_ context.Context, id, viewer primitive.ObjectID) (*view.VideoDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	v, ok := m.videos[id]
	if !ok {
		return nil, common.ErrNotFound("Video")
	}
	d := &view.VideoDetail{
		ID: v.ID, VideoFile: v.VideoFile, Thumbnail: v.Thumbnail, Title: v.Title,
		Description: v.Description, Views: v.Views, IsPublished: v.IsPublished,
		Owner: &view.ChannelProfile{ID: v.Owner}, OwnerMatches: 1,
	}
	for _, l := range m.likes {
		if l.Video != nil && *l.Video == id {
			d.LikesCount++
			if l.LikedBy == viewer {
				d.IsLiked = true
			}
		}
	}
	return d, nil
}

func (m *memStore) ListVideos(_ context.Context, cfg view.ListConfig, opts paginate.Options) (*paginate.Page[view.VideoItem], error) {
	p, err := view.VideoListing(cfg)
	if err != nil {
		return nil, err
	}
	filter, err := matchFilter(p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var items []view.VideoItem
	for _, v := range m.videos {
		if !matchesVideo(filter, v) {
			continue
		}
		items = append(items, view.VideoItem{ID: v.ID, Title: v.Title, IsPublished: v.IsPublished, Owner: &view.OwnerSummary{ID: v.Owner}, OwnerMatches: 1})
	}
	return paginate.NewPage(items, int64(len(items)), opts.Normalize()), nil
}

// matchFilter returns the filter of the first $match stage so the fake
// applies the same visibility rules the aggregation would.
func matchFilter(p view.Pipeline) (bson.D, error) {
	for _, stage := range p {
		if len(stage) == 1 && stage[0].Key == "$match" {
			if f, ok := stage[0].Value.(bson.D); ok {
				return f, nil
			}
		}
	}
	return nil, errors.New("listing pipeline has no $match stage")
}

// matchesVideo evaluates the subset of query operators the listing emits:
// equality on isPublished and owner, and $or over sub-filters.
func matchesVideo(filter bson.D, v dbmongo.Video) bool {
	for _, e := range filter {
		switch e.Key {
		case "isPublished":
			if b, ok := e.Value.(bool); !ok || v.IsPublished != b {
				return false
			}
		case "owner":
			if id, ok := e.Value.(primitive.ObjectID); !ok || v.Owner != id {
				return false
			}
		case "$or":
			alts, _ := e.Value.(bson.A)
			matched := false
			for _, alt := range alts {
				if sub, ok := alt.(bson.D); ok && matchesVideo(sub, v) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (m *memStore) CommentIDsByVideo(_ context.Context, videoID primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []primitive.ObjectID
	for id, c := range m.comments {
		if c.Video == videoID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memStore) DeleteCommentsByVideo(_ context.Context, videoID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failComment != nil {
		return 0, m.failComment
	}
	var n int64
	for id, c := range m.comments {
		if c.Video == videoID {
			delete(m.comments, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteLikesByTarget(_ context.Context, target dbmongo.LikeTarget) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, l := range m.likes {
		if t, err := l.Target(); err == nil && t == target {
			delete(m.likes, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) DeleteLikesByComments(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		set[id] = true
	}
	var n int64
	for id, l := range m.likes {
		if l.Comment != nil && set[*l.Comment] {
			delete(m.likes, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) AddToWatchHistory(_ context.Context, userID, videoID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.histories[userID] {
		if id == videoID {
			return nil
		}
	}
	m.histories[userID] = append(m.histories[userID], videoID)
	return nil
}

func (m *memStore) PullFromWatchHistories(_ context.Context, videoID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for user, ids := range m.histories {
		kept := ids[:0]
		for _, id := range ids {
			if id != videoID {
				kept = append(kept, id)
			}
		}
		if len(kept) != len(ids) {
			n++
		}
		m.histories[user] = kept
	}
	return n, nil
}

func (m *memStore) likesOn(kind dbmongo.LikeTargetKind, id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.likes {
		if t, err := l.Target(); err == nil && t.Kind == kind && t.ID == id {
			n++
		}
	}
	return n
}

type countingOrphans struct {
	mu     sync.Mutex
	byKind map[common.AssetKind]int
}

func newCountingOrphans() *countingOrphans {
	return &countingOrphans{byKind: map[common.AssetKind]int{}}
}

func (o *countingOrphans) OrphanedAsset(kind common.AssetKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.byKind[kind]++
}

var errAssetGone = errors.New("asset not found")
