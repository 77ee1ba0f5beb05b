package dispatcher

import (
	"context"
	"sync"
)

// Future is the awaitable outcome of a submitted [Operation].
//
// It is completed exactly once: with a value, with nil (no data), or with an error.
type Future struct {
	ch   chan struct{}
	once sync.Once

	val any
	err error
}

func newFuture() *Future {
	return &Future{ch: make(chan struct{})}
}

// complete stores the outcome and wakes every waiter. Later calls are ignored.
func (f *Future) complete(val any, err error) {
	f.once.Do(func() {
		f.val = val
		f.err = err
		close(f.ch)
	})
}

// Done returns a channel that is closed once the outcome is available.
func (f *Future) Done() <-chan struct{} {
	return f.ch
}

// Wait blocks until the outcome is available or ctx is done.
//
// A done ctx only abandons the wait; the operation itself keeps its place in the queue.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.ch:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome without blocking; ok is false while pending.
func (f *Future) Result() (val any, err error, ok bool) {
	select {
	case <-f.ch:
		return f.val, f.err, true
	default:
		return nil, nil, false
	}
}
