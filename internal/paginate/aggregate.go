package paginate

import (
	"context"
	"errors"
	"fmt"

	"gotube/internal/view"
)

// ErrNoResult is returned by One when the pipeline yields no document.
var ErrNoResult = errors.New("aggregation returned no document")

// All runs p and decodes every document.
func All[T any](ctx context.Context, agg Aggregator, p view.Pipeline) ([]T, error) {
	cursor, err := agg.Aggregate(ctx, p.Mongo())
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("aggregate decode: %w", err)
	}
	return out, nil
}

// One runs p and decodes its first document.
func One[T any](ctx context.Context, agg Aggregator, p view.Pipeline) (*T, error) {
	cursor, err := agg.Aggregate(ctx, p.Mongo())
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("aggregate: %w", err)
		}
		return nil, ErrNoResult
	}
	var out T
	if err := cursor.Decode(&out); err != nil {
		return nil, fmt.Errorf("aggregate decode: %w", err)
	}
	return &out, nil
}
