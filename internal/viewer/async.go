package viewer

import (
	"context"
	"fmt"
)

// Async runs a load on its own goroutine and hands the result to the frame
// loop. Poll never blocks, so the loop keeps drawing while the load runs.
type Async[T any] struct {
	ch     chan asyncResult[T]
	cancel context.CancelFunc
	done   bool
}

type asyncResult[T any] struct {
	val T
	err error
}

// Start launches fn. Panics inside fn are reported as errors.
func Start[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) *Async[T] {
	ctx, cancel := context.WithCancel(ctx)
	a := &Async[T]{
		ch:     make(chan asyncResult[T], 1),
		cancel: cancel,
	}

	go func() {
		var res asyncResult[T]
		defer func() {
			if r := recover(); r != nil {
				res = asyncResult[T]{err: fmt.Errorf("%s: panic: %v", name, r)}
			}
			a.ch <- res
		}()
		res.val, res.err = fn(ctx)
	}()
	return a
}

// Poll returns the result once it is available. ok is true exactly once.
func (a *Async[T]) Poll() (val T, err error, ok bool) {
	if a == nil || a.done {
		return val, nil, false
	}
	select {
	case res := <-a.ch:
		a.done = true
		a.cancel()
		return res.val, res.err, true
	default:
		return val, nil, false
	}
}

// Cancel asks the load to stop. The result, if any, is still delivered.
func (a *Async[T]) Cancel() {
	if a != nil {
		a.cancel()
	}
}
