// Package worker runs commands away from the goroutine that issued them and
// from the ones delivering live updates.
//
// A Pool has two lanes. Submit runs store mutations with at most workers of
// them in flight. Go runs commands that wait on an external system, each on
// its own goroutine, so a hung remote call holds up only its own command.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/paramset/paramset/internal/fault"
)

// ErrClosed is returned for work submitted after Close.
var ErrClosed = errors.New("worker pool closed")

// Pool bounds the bounded lane with two semaphores: admitted holds running
// plus waiting tasks, running holds the tasks currently executing.
type Pool struct {
	admitted *semaphore.Weighted
	running  *semaphore.Weighted

	// base is cancelled by Close and aborts tasks on the external lane.
	base context.Context
	stop context.CancelFunc

	bounded  sync.WaitGroup
	external sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New returns a pool running at most workers bounded tasks at once and
// admitting queueSize more to wait for a slot. Values below 1 are raised to
// 1 worker and no waiting room.
func New(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	base, stop := context.WithCancel(context.Background())

	return &Pool{
		admitted: semaphore.NewWeighted(int64(workers + queueSize)),
		running:  semaphore.NewWeighted(int64(workers)),
		base:     base,
		stop:     stop,
	}
}

// admit blocks until the bounded lane has room, ctx is done or the pool is closed.
func (p *Pool) admit(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}
	if err := p.admitted.Acquire(ctx, 1); err != nil {
		return err
	}
	p.bounded.Add(1)

	return nil
}

func (p *Pool) detach() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}
	p.external.Add(1)

	return nil
}

// Close stops accepting work and runs what was admitted on the bounded lane.
// It then cancels the context of external tasks and waits for them.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.bounded.Wait()
	p.stop()
	p.external.Wait()
}

// Task is the pending result of a submitted function.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newTask[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

func (t *Task[T]) finish(v T, err error) {
	t.value, t.err = v, err
	close(t.done)
}

// Done is closed once the task has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finished or ctx is done. Giving up on ctx does
// not stop the task.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit runs fn on the bounded lane. fn runs with a context carrying the
// values of ctx but not its cancellation, so a finished request does not
// abort the command it started. A panic in fn completes the task with a
// terminal fault.
func Submit[T any](ctx context.Context, p *Pool, op string, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := newTask[T]()

	if err := p.admit(ctx); err != nil {
		var zero T
		t.finish(zero, err)
		return t
	}

	runCtx := context.WithoutCancel(ctx)

	go func() {
		defer p.bounded.Done()
		defer p.admitted.Release(1)

		// running is never acquired beyond its size, so this cannot fail.
		_ = p.running.Acquire(context.Background(), 1)
		defer p.running.Release(1)

		call(runCtx, t, op, fn)
	}()

	return t
}

// Go runs fn on its own goroutine outside the bounded lane. Like Submit, fn
// does not see the cancellation of ctx; it is cancelled when the pool closes.
func Go[T any](ctx context.Context, p *Pool, op string, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := newTask[T]()

	if err := p.detach(); err != nil {
		var zero T
		t.finish(zero, err)
		return t
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	unlink := context.AfterFunc(p.base, cancel)

	go func() {
		defer p.external.Done()
		defer cancel()
		defer unlink()

		call(runCtx, t, op, fn)
	}()

	return t
}

func call[T any](ctx context.Context, t *Task[T], op string, fn func(ctx context.Context) (T, error)) {
	var (
		v   T
		err error
	)

	defer func() {
		if r := recover(); r != nil {
			err = fault.Panic(op, r)
			log.Error().Err(err).Str("op", op).Msg("worker task panicked")
		}
		t.finish(v, err)
	}()

	v, err = fn(ctx)
}
