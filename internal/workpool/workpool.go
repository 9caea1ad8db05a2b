// internal/workpool/workpool.go
package workpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs fn for every item with at most limit calls in flight.
//
// Items are dispatched in input order; once the ceiling is reached the next dispatch
// blocks until a running call returns. Completion order is not guaranteed. The first
// error returned by fn cancels ctx for the remaining calls, stops further dispatch,
// and is returned from ForEach. fn is never retried.
func ForEach[T any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, index int, item T) error) error {
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(gctx, i, item)
		})
	}

	return g.Wait()
}
