package video

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

// ---- Fake VideoUsecase for handler tests ----

type fakeVideoSvc struct {
	ListVideosFn          func(ctx context.Context, q ListQuery, opts paginate.Options) (*paginate.Page[view.VideoItem], error)
	PublishVideoFn        func(ctx context.Context, owner primitive.ObjectID, in PublishInput) (*dbmongo.Video, error)
	GetVideoFn            func(ctx context.Context, rawID string, viewer primitive.ObjectID) (*view.VideoDetail, error)
	UpdateVideoFn         func(ctx context.Context, actor primitive.ObjectID, rawID string, in UpdateInput) (*dbmongo.Video, error)
	TogglePublishStatusFn func(ctx context.Context, actor primitive.ObjectID, rawID string) (*dbmongo.Video, error)
	DeleteVideoFn         func(ctx context.Context, actor primitive.ObjectID, rawID string) (*DeleteResult, error)
}

func (f *fakeVideoSvc) ListVideos(ctx context.Context, q ListQuery, o paginate.Options) (*paginate.Page[view.VideoItem], error) {
	return f.ListVideosFn(ctx, q, o)
}
func (f *fakeVideoSvc) PublishVideo(ctx context.Context, o primitive.ObjectID, in PublishInput) (*dbmongo.Video, error) {
	return f.PublishVideoFn(ctx, o, in)
}
func (f *fakeVideoSvc) GetVideo(ctx context.Context, id string, v primitive.ObjectID) (*view.VideoDetail, error) {
	return f.GetVideoFn(ctx, id, v)
}
func (f *fakeVideoSvc) UpdateVideo(ctx context.Context, a primitive.ObjectID, id string, in UpdateInput) (*dbmongo.Video, error) {
	return f.UpdateVideoFn(ctx, a, id, in)
}
func (f *fakeVideoSvc) TogglePublishStatus(ctx context.Context, a primitive.ObjectID, id string) (*dbmongo.Video, error) {
	return f.TogglePublishStatusFn(ctx, a, id)
}
func (f *fakeVideoSvc) DeleteVideo(ctx context.Context, a primitive.ObjectID, id string) (*DeleteResult, error) {
	return f.DeleteVideoFn(ctx, a, id)
}

type apiEnvelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Success    bool            `json:"success"`
}

func setupRouter(t *testing.T, svc *fakeVideoSvc) (*mux.Router, func(primitive.ObjectID) string) {
	tokens := common.NewTokenManager("video-secret", time.Hour)
	r := mux.NewRouter()
	NewVideoHandlers(svc, Settings{UploadDir: t.TempDir()}, zap.NewNop()).
		RegisterRoutes(r, common.NewAuthenticator(tokens, zap.NewNop()))

	return r, func(id primitive.ObjectID) string {
		tok, err := tokens.GenerateToken(id, "u")
		require.NoError(t, err)
		return tok
	}
}

func serve(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandlers_ListVideosPassesQuery(t *testing.T) {
	svc := &fakeVideoSvc{
		ListVideosFn: func(_ context.Context, q ListQuery, o paginate.Options) (*paginate.Page[view.VideoItem], error) {
			assert.Equal(t, "cats", q.Query)
			assert.Equal(t, "views", q.SortBy)
			assert.Equal(t, "asc", q.SortType)
			assert.True(t, q.Viewer.IsZero())
			assert.Equal(t, paginate.Options{Page: 3, Limit: 20}, o)
			return paginate.NewPage([]view.VideoItem{}, 0, o), nil
		},
	}
	r, _ := setupRouter(t, svc)

	rec, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/videos?query=cats&sortBy=views&sortType=asc&page=3&limit=20", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Videos fetched successfully", env.Message)
	assert.True(t, env.Success)
}

func TestHandlers_PublishVideoSavesUploads(t *testing.T) {
	owner := primitive.NewObjectID()
	svc := &fakeVideoSvc{
		PublishVideoFn: func(_ context.Context, o primitive.ObjectID, in PublishInput) (*dbmongo.Video, error) {
			assert.Equal(t, owner, o)
			assert.Equal(t, "my title", in.Title)
			assert.FileExists(t, in.VideoPath)
			assert.FileExists(t, in.ThumbnailPath)
			data, err := os.ReadFile(in.VideoPath)
			require.NoError(t, err)
			assert.Equal(t, "video-bytes", string(data))
			return &dbmongo.Video{ID: primitive.NewObjectID(), Title: in.Title}, nil
		},
	}
	r, tokenFor := setupRouter(t, svc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "my title"))
	require.NoError(t, mw.WriteField("description", "desc"))
	fw, err := mw.CreateFormFile("videoFile", "clip.mp4")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("video-bytes"))
	fw, err = mw.CreateFormFile("thumbnail", "thumb.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tokenFor(owner))

	rec, env := serve(t, r, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Video uploaded successfully", env.Message)
	assert.Contains(t, string(env.Data), `"video"`)
}

func TestHandlers_PublishVideoRejectsMismatchedThumbnail(t *testing.T) {
	owner := primitive.NewObjectID()
	called := false
	svc := &fakeVideoSvc{
		PublishVideoFn: func(context.Context, primitive.ObjectID, PublishInput) (*dbmongo.Video, error) {
			called = true
			return nil, nil
		},
	}
	r, tokenFor := setupRouter(t, svc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "t"))
	require.NoError(t, mw.WriteField("description", "d"))
	fw, err := mw.CreateFormFile("videoFile", "clip.mp4")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("video-bytes"))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="thumbnail"; filename="thumb.mp4"`)
	h.Set("Content-Type", "video/mp4")
	fw, err = mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = fw.Write([]byte("not-an-image"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tokenFor(owner))

	rec, env := serve(t, r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.False(t, called)
}

func TestHandlers_PublishVideoRequiresAuth(t *testing.T) {
	r, _ := setupRouter(t, &fakeVideoSvc{})
	rec, env := serve(t, r, httptest.NewRequest(http.MethodPost, "/videos", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestHandlers_DeleteVideoReportsFailedAssets(t *testing.T) {
	owner := primitive.NewObjectID()
	svc := &fakeVideoSvc{
		DeleteVideoFn: func(_ context.Context, a primitive.ObjectID, id string) (*DeleteResult, error) {
			assert.Equal(t, "abc", id)
			return &DeleteResult{
				DeletedVideo: &dbmongo.Video{ID: primitive.NewObjectID()},
				FailedAssets: []FailedAsset{{Kind: common.AssetKindImage, URL: "http://a/t", Error: "gone"}},
			}, nil
		},
	}
	r, tokenFor := setupRouter(t, svc)

	req := httptest.NewRequest(http.MethodDelete, "/videos/abc", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(owner))
	rec, env := serve(t, r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Video deleted, but 1 assets failed to clean up", env.Message)

	var data DeleteResult
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.FailedAssets, 1)
	assert.Equal(t, "http://a/t", data.FailedAssets[0].URL)
}

func TestHandlers_GetVideoMapsErrors(t *testing.T) {
	svc := &fakeVideoSvc{
		GetVideoFn: func(_ context.Context, id string, _ primitive.ObjectID) (*view.VideoDetail, error) {
			return nil, common.ErrInvalidIdentifier("video id")
		},
	}
	r, _ := setupRouter(t, svc)

	rec, env := serve(t, r, httptest.NewRequest(http.MethodGet, "/videos/nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid video id", env.Error)
}
