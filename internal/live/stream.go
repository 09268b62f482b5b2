package live

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Update is one emission of a Stream: the freshly loaded value or the error
// the load returned.
type Update[T any] struct {
	Value T
	Err   error
}

// Stream delivers the result of a query now and after every relevant write.
// Only the latest value matters: a reader that falls behind skips to it.
type Stream[T any] struct {
	// C receives updates until the stream is closed, then is closed itself.
	C <-chan Update[T]

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Observe runs load once and again after every Notify touching tables,
// delivering each result on the returned stream. The stream stops when ctx
// is done or Close is called. load runs on the stream's own goroutine.
func Observe[T any](ctx context.Context, n *Notifier, load func(context.Context) (T, error), tables ...string) *Stream[T] {
	ctx, cancel := context.WithCancel(ctx)
	signal, unwatch := n.Watch(tables...)

	out := make(chan Update[T], 1)
	s := &Stream[T]{C: out, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(s.done)
		defer close(out)
		defer unwatch()

		for {
			v, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Debug().Err(err).Strs("tables", tables).Msg("live query failed")
			}

			if !deliver(ctx, out, Update[T]{Value: v, Err: err}) {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
		}
	}()

	return s
}

// deliver replaces a pending, unread update with u.
func deliver[T any](ctx context.Context, out chan Update[T], u Update[T]) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case out <- u:
			return true
		default:
		}

		select {
		case <-out:
		default:
		}
	}
}

// Close stops the stream and waits for its goroutine to exit.
func (s *Stream[T]) Close() {
	s.once.Do(s.cancel)
	<-s.done
}
