package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotube/internal/common"
	"gotube/internal/lifecycle"
)

func TestCollector_OrphanedAssets(t *testing.T) {
	c := NewCollector()
	c.OrphanedAsset(common.AssetKindImage)
	c.OrphanedAsset(common.AssetKindImage)
	c.OrphanedAsset(common.AssetKindVideo)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.orphanedAssetsTotal.WithLabelValues("image")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.orphanedAssetsTotal.WithLabelValues("video")))
}

func TestCollector_ObservesWorkflow(t *testing.T) {
	c := NewCollector()
	lifecycle.New("delete-tweet", nil, c).
		Critical("primary", func(ctx context.Context) error { return nil }).
		Run(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(c.cascadeStepsTotal.WithLabelValues("delete-tweet", "primary", "succeeded")))
}

func TestCollector_MiddlewareUsesRouteTemplate(t *testing.T) {
	c := NewCollector()
	r := mux.NewRouter()
	r.Use(c.Middleware)
	r.HandleFunc("/videos/{videoId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", c.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/videos/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/videos/def", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues("/videos/{videoId}", "GET", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "gotube_http_requests_total"))
}
