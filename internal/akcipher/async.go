package akcipher

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned synchronously when the worker pool has no free slot
// and the caller did not opt in to backlogging (see Submit).
var ErrBusy = errors.New("akcipher: engine backlog full")

// ErrInProgress is returned when a request has been accepted onto the
// backlog; the supplied CompletionFunc will be invoked later from a pool
// goroutine.
var ErrInProgress = errors.New("akcipher: request queued")

// AsyncEngine wraps an Engine with a bounded worker pool, giving callers
// the two completion paths the padding layer's orchestrator must handle:
// synchronous (a free slot was available, the call ran inline) and
// deferred (the pool was saturated, the caller allowed backlogging, and
// the completion callback fires once a worker picks the job up).
//
// This models the kernel crypto API's CRYPTO_TFM_REQ_MAY_BACKLOG /
// -EINPROGRESS / -EBUSY contract without needing an actual asynchronous
// hardware engine to drive it.
type AsyncEngine struct {
	inner Engine
	sem   *semaphore.Weighted
}

// NewAsyncEngine wraps inner with a pool allowing at most capacity
// concurrent Do() calls.
func NewAsyncEngine(inner Engine, capacity int64) *AsyncEngine {
	if capacity < 1 {
		capacity = 1
	}
	return &AsyncEngine{inner: inner, sem: semaphore.NewWeighted(capacity)}
}

func (a *AsyncEngine) SetPublicKey(key []byte) (int, error)  { return a.inner.SetPublicKey(key) }
func (a *AsyncEngine) SetPrivateKey(key []byte) (int, error) { return a.inner.SetPrivateKey(key) }
func (a *AsyncEngine) MaxSize() int                          { return a.inner.MaxSize() }

// Do implements Engine by acquiring a pool slot and running inline. This
// makes AsyncEngine usable anywhere a plain Engine is expected; Submit is
// the richer entry point that exposes the backlog behavior.
func (a *AsyncEngine) Do(ctx context.Context, req *Request) (int, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer a.sem.Release(1)
	return a.inner.Do(ctx, req)
}

// Submit attempts req against the pool. If a slot is immediately free, it
// runs inline and returns inline=true with the final (n, err). If the pool
// is saturated and mayBacklog is false, it returns inline=true, ErrBusy
// without ever touching the inner engine. If the pool is saturated and
// mayBacklog is true, the request is queued: Submit returns
// inline=false, ErrInProgress immediately, and done is invoked exactly
// once, later, from a pool goroutine once a slot frees up.
func (a *AsyncEngine) Submit(ctx context.Context, req *Request, mayBacklog bool, done CompletionFunc) (inline bool, n int, err error) {
	if a.sem.TryAcquire(1) {
		defer a.sem.Release(1)
		n, err = a.inner.Do(ctx, req)
		return true, n, err
	}

	if !mayBacklog {
		return true, 0, ErrBusy
	}

	go func() {
		if aerr := a.sem.Acquire(ctx, 1); aerr != nil {
			done(0, aerr)
			return
		}
		defer a.sem.Release(1)
		n, err := a.inner.Do(ctx, req)
		done(n, err)
	}()

	return false, 0, ErrInProgress
}
