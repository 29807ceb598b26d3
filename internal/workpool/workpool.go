// Package workpool bounds the number of blocking operations (transcoder
// runs, YouTube stream extraction) in flight at once.
//
//	pool := workpool.New(4)
//	url, err := workpool.Do(ctx, pool, func(ctx context.Context) (string, error) {
//	    return extract(ctx, id)
//	})
package workpool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultSize is used when a pool is created with a non-positive size.
const DefaultSize = 4

// Pool limits concurrent work. The zero value is not usable; use New.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New creates a Pool admitting at most size concurrent jobs.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

// Size returns the pool capacity.
func (p *Pool) Size() int { return p.size }

// Run waits for a free slot and runs fn in it. It returns ctx.Err() if
// the context ends while waiting.
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}

// Do is Run for functions that produce a value.
func Do[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Run(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}
