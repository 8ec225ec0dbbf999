package paginate

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotube/internal/view"
)

type item struct {
	N int `bson:"n"`
}

// sliceAggregator answers a pipeline ending in the $facet stage from an
// in-memory result set, the way the server would.
type sliceAggregator struct {
	docs     []item
	err      error
	calls    int
	lastPipe mongo.Pipeline
}

func (a *sliceAggregator) Aggregate(ctx context.Context, pipeline interface{}, _ ...*options.AggregateOptions) (*mongo.Cursor, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	pipe := pipeline.(mongo.Pipeline)
	a.lastPipe = pipe

	if len(pipe) == 0 || pipe[len(pipe)-1][0].Key != "$facet" {
		docs := make([]interface{}, len(a.docs))
		for i, d := range a.docs {
			docs[i] = d
		}
		return mongo.NewCursorFromDocuments(docs, nil, nil)
	}

	facet := pipe[len(pipe)-1][0].Value.(bson.D).Map()
	itemsSpec := facet["items"].(bson.A)
	skip := int(itemsSpec[0].(bson.D)[0].Value.(int64))
	limit := int(itemsSpec[1].(bson.D)[0].Value.(int64))

	var page []item
	for i := skip; i < len(a.docs) && i < skip+limit; i++ {
		page = append(page, a.docs[i])
	}
	total := bson.A{}
	if len(a.docs) > 0 {
		total = append(total, bson.M{"count": int64(len(a.docs))})
	}
	itemsOut := bson.A{}
	for _, p := range page {
		itemsOut = append(itemsOut, p)
	}
	return mongo.NewCursorFromDocuments([]interface{}{bson.M{"items": itemsOut, "total": total}}, nil, nil)
}

func makeItems(n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{N: i + 1}
	}
	return out
}

func TestOptions_Normalize(t *testing.T) {
	tests := []struct {
		in   Options
		want Options
	}{
		{Options{}, Options{Page: 1, Limit: 10}},
		{Options{Page: -3, Limit: -1}, Options{Page: 1, Limit: 10}},
		{Options{Page: 4, Limit: 25}, Options{Page: 4, Limit: 25}},
		{Options{Page: 2, Limit: 1000}, Options{Page: 2, Limit: MaxLimit}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize())
	}
}

func TestFromQuery(t *testing.T) {
	assert.Equal(t, Options{Page: 3, Limit: 5}, FromQuery(url.Values{"page": {"3"}, "limit": {"5"}}))
	assert.Equal(t, Options{Page: 1, Limit: 10}, FromQuery(url.Values{"page": {"abc"}}))
}

func TestPaginate_TwentyFiveItems(t *testing.T) {
	agg := &sliceAggregator{docs: makeItems(25)}
	ctx := context.Background()

	tests := []struct {
		page      int
		wantItems int
		wantFirst int
		hasNext   bool
		hasPrev   bool
	}{
		{1, 10, 1, true, false},
		{2, 10, 11, true, true},
		{3, 5, 21, false, true},
		{4, 0, 0, false, true},
	}

	for _, tt := range tests {
		page, err := Paginate[item](ctx, agg, view.Pipeline{}, Options{Page: tt.page, Limit: 10})
		require.NoError(t, err)

		assert.Equal(t, int64(25), page.TotalCount)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Items, tt.wantItems, "page %d", tt.page)
		assert.NotNil(t, page.Items)
		assert.Equal(t, tt.hasNext, page.HasNextPage, "page %d", tt.page)
		assert.Equal(t, tt.hasPrev, page.HasPrevPage, "page %d", tt.page)
		if tt.wantItems > 0 {
			assert.Equal(t, tt.wantFirst, page.Items[0].N)
		}
	}
	assert.Equal(t, 4, agg.calls, "one aggregation per page")
}

func TestPaginate_EmptyResult(t *testing.T) {
	agg := &sliceAggregator{}
	page, err := Paginate[item](context.Background(), agg, view.Pipeline{}, Options{})
	require.NoError(t, err)

	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalCount)
	assert.Zero(t, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.Nil(t, page.NextPage)
}

func TestPaginate_AppendsFacetWithoutMutatingPipeline(t *testing.T) {
	agg := &sliceAggregator{docs: makeItems(3)}
	base := view.Pipeline{bson.D{{Key: "$match", Value: bson.D{}}}}

	_, err := Paginate[item](context.Background(), agg, base, Options{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, base, 1)
	require.Len(t, agg.lastPipe, 2)
	assert.Equal(t, FacetStage(Options{Page: 2, Limit: 2}), agg.lastPipe[1])
}

func TestPaginate_AggregateError(t *testing.T) {
	agg := &sliceAggregator{err: errors.New("connection reset")}
	_, err := Paginate[item](context.Background(), agg, view.Pipeline{}, Options{})
	assert.ErrorContains(t, err, "connection reset")
}

func TestNewPage_Links(t *testing.T) {
	p := NewPage([]int{1, 2}, 6, Options{Page: 2, Limit: 2})
	require.NotNil(t, p.NextPage)
	require.NotNil(t, p.PrevPage)
	assert.Equal(t, 3, *p.NextPage)
	assert.Equal(t, 1, *p.PrevPage)
}

func TestOneAndAll(t *testing.T) {
	ctx := context.Background()
	agg := &sliceAggregator{docs: makeItems(2)}

	got, err := One[item](ctx, agg, view.Pipeline{})
	require.NoError(t, err)
	assert.Equal(t, 1, got.N)

	all, err := All[item](ctx, agg, view.Pipeline{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = One[item](ctx, &sliceAggregator{}, view.Pipeline{})
	assert.ErrorIs(t, err, ErrNoResult)
}
