package bridge

import (
	"context"
	"sync"
)

// future resolves at most once. Later resolutions are dropped, as is a
// result that arrives after the waiter gave up.
type future[T any] struct {
	once sync.Once
	ch   chan T
}

func newFuture[T any]() *future[T] {
	return &future[T]{ch: make(chan T, 1)}
}

func (f *future[T]) resolve(v T) bool {
	resolved := false
	f.once.Do(func() {
		f.ch <- v
		resolved = true
	})
	return resolved
}

func (f *future[T]) await(ctx context.Context) (T, error) {
	select {
	case v := <-f.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
