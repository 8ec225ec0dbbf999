package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"gotube/internal/common"
	"gotube/internal/dbmongo"
	"gotube/internal/paginate"
	"gotube/internal/view"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Errors     []string        `json:"errors"`
	Success    bool            `json:"success"`
}

func newTestRouter(t *testing.T) (*MockUserService, *mux.Router, *common.TokenManager) {
	ctrl := gomock.NewController(t)
	mockSvc := NewMockUserService(ctrl)
	tokens := common.NewTokenManager("handler-secret", time.Hour)

	r := mux.NewRouter()
	NewHandler(mockSvc, zap.NewNop()).RegisterRoutes(r, common.NewAuthenticator(tokens, zap.NewNop()))
	return mockSvc, r, tokens
}

func doRequest(t *testing.T, r http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(svc *MockUserService)
		wantStatus int
	}{
		{
			name: "happy path",
			body: `{"username":"alice","email":"a@x.com","fullName":"Alice","password":"pwgood1"}`,
			setup: func(svc *MockUserService) {
				svc.EXPECT().RegisterUser(gomock.Any(), RegisterInput{Username: "alice", Email: "a@x.com", FullName: "Alice", Password: "pwgood1"}).
					Return(&dbmongo.User{ID: primitive.NewObjectID(), Username: "alice"}, "tok", nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "validation error",
			body: `{"username":"!","email":"bad","password":""}`,
			setup: func(svc *MockUserService) {
				svc.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).
					Return(nil, "", common.ErrValidation("invalid email format"))
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"username":`,
			setup:      func(*MockUserService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "internal error is not leaked",
			body: `{"username":"bob","email":"x@x.com","fullName":"Bob","password":"pwgood1"}`,
			setup: func(svc *MockUserService) {
				svc.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).
					Return(nil, "", errors.New("db connection lost"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, r, _ := newTestRouter(t)
			tc.setup(svc)

			rec, env := doRequest(t, r, http.MethodPost, "/users/register", tc.body, "")
			require.Equal(t, tc.wantStatus, rec.Code)
			require.Equal(t, tc.wantStatus, env.StatusCode)
			require.Equal(t, tc.wantStatus < 400, env.Success)
			require.NotContains(t, rec.Body.String(), "db connection lost")
			require.NotContains(t, rec.Body.String(), "password\":")
		})
	}
}

func TestHandler_LoginFallsBackToEmail(t *testing.T) {
	svc, r, _ := newTestRouter(t)
	svc.EXPECT().LoginUser(gomock.Any(), "a@x.com", "pwgood1").
		Return(&dbmongo.User{ID: primitive.NewObjectID(), Username: "alice"}, "tok", nil)

	rec, env := doRequest(t, r, http.MethodPost, "/users/login", `{"email":"a@x.com","password":"pwgood1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var data authResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "tok", data.AccessToken)
}

func TestHandler_MeRequiresToken(t *testing.T) {
	svc, r, tokens := newTestRouter(t)

	rec, env := doRequest(t, r, http.MethodGet, "/users/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, env.Success)

	rec, _ = doRequest(t, r, http.MethodGet, "/users/me", "", "garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	id := primitive.NewObjectID()
	token, err := tokens.GenerateToken(id, "alice")
	require.NoError(t, err)
	svc.EXPECT().GetProfile(gomock.Any(), id).Return(&dbmongo.User{ID: id, Username: "alice"}, nil)

	rec, env = doRequest(t, r, http.MethodGet, "/users/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User fetched successfully", env.Message)
}

func TestHandler_HistoryPaginates(t *testing.T) {
	svc, r, tokens := newTestRouter(t)
	id := primitive.NewObjectID()
	token, err := tokens.GenerateToken(id, "alice")
	require.NoError(t, err)

	opts := paginate.Options{Page: 2, Limit: 5}
	svc.EXPECT().WatchHistory(gomock.Any(), id, opts).
		Return(paginate.NewPage([]view.VideoItem{}, 0, opts), nil)

	rec, env := doRequest(t, r, http.MethodGet, "/users/history?page=2&limit=5", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var page paginate.Page[view.VideoItem]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, 2, page.Page)
	require.NotNil(t, page.Items)
}
