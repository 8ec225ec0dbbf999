// Package paginate executes view pipelines with page/limit semantics in a
// single aggregation round trip.
package paginate

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotube/internal/view"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Aggregator is satisfied by *mongo.Collection.
type Aggregator interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

type Options struct {
	Page  int
	Limit int
}

func (o Options) Normalize() Options {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	return o
}

// FromQuery reads page and limit query parameters; unparsable values fall
// back to the defaults.
func FromQuery(q url.Values) Options {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return Options{Page: page, Limit: limit}.Normalize()
}

type Page[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"totalCount"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
}

type facetResult[T any] struct {
	Items []T `bson:"items"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

// FacetStage splits a result set into the requested slice and its total count.
func FacetStage(opts Options) bson.D {
	skip := int64(opts.Page-1) * int64(opts.Limit)
	return bson.D{{Key: "$facet", Value: bson.D{
		{Key: "items", Value: bson.A{
			bson.D{{Key: "$skip", Value: skip}},
			bson.D{{Key: "$limit", Value: int64(opts.Limit)}},
		}},
		{Key: "total", Value: bson.A{
			bson.D{{Key: "$count", Value: "count"}},
		}},
	}}}
}

// Paginate runs p with a trailing $facet so items and total come from the
// same read. An empty result is a valid page with no items.
func Paginate[T any](ctx context.Context, agg Aggregator, p view.Pipeline, opts Options) (*Page[T], error) {
	opts = opts.Normalize()

	cursor, err := agg.Aggregate(ctx, p.With(FacetStage(opts)).Mongo())
	if err != nil {
		return nil, fmt.Errorf("paginate aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var results []facetResult[T]
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("paginate decode: %w", err)
	}

	var (
		items []T
		total int64
	)
	if len(results) > 0 {
		items = results[0].Items
		if len(results[0].Total) > 0 {
			total = results[0].Total[0].Count
		}
	}
	return NewPage(items, total, opts), nil
}

// NewPage computes page metadata for one slice of a result set.
func NewPage[T any](items []T, total int64, opts Options) *Page[T] {
	opts = opts.Normalize()
	if items == nil {
		items = []T{}
	}

	totalPages := int((total + int64(opts.Limit) - 1) / int64(opts.Limit))
	page := &Page[T]{
		Items:       items,
		TotalCount:  total,
		Page:        opts.Page,
		Limit:       opts.Limit,
		TotalPages:  totalPages,
		HasNextPage: opts.Page < totalPages,
		HasPrevPage: opts.Page > 1,
	}
	if page.HasNextPage {
		next := opts.Page + 1
		page.NextPage = &next
	}
	if page.HasPrevPage {
		prev := opts.Page - 1
		page.PrevPage = &prev
	}
	return page
}
