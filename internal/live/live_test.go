package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func TestNotifier_Watch(t *testing.T) {
	n := NewNotifier()

	configs, cancelConfigs := n.Watch(TableConfigs)
	defer cancelConfigs()
	results, cancelResults := n.Watch(TableExecutionResults, TableKeyValues)
	defer cancelResults()

	n.Notify(TableKeyValues)

	select {
	case <-results:
	default:
		t.Fatal("watcher of key_values was not signalled")
	}

	select {
	case <-configs:
		t.Fatal("watcher of configs was signalled for key_values")
	default:
	}
}

func TestNotifier_Coalesces(t *testing.T) {
	n := NewNotifier()

	signal, cancel := n.Watch(TableConfigs)
	defer cancel()

	for range 10 {
		n.Notify(TableConfigs)
	}

	<-signal
	select {
	case <-signal:
		t.Fatal("pending signals were not coalesced")
	default:
	}
}

func TestNotifier_Cancel(t *testing.T) {
	n := NewNotifier()

	_, cancel := n.Watch(TableConfigs)
	assert.Equal(t, 1, n.Watchers())

	cancel()
	cancel()
	assert.Zero(t, n.Watchers())

	n.Notify(TableConfigs)
}

func next[T any](t *testing.T, s *Stream[T]) Update[T] {
	t.Helper()

	select {
	case u, ok := <-s.C:
		require.True(t, ok, "stream closed")
		return u
	case <-time.After(waitFor):
		t.Fatal("no update within deadline")
	}

	return Update[T]{}
}

func TestObserve_EmitsInitialAndReloads(t *testing.T) {
	n := NewNotifier()

	var value atomic.Int64
	value.Store(1)

	s := Observe(context.Background(), n, func(context.Context) (int64, error) {
		return value.Load(), nil
	}, TableConfigs)
	defer s.Close()

	assert.Equal(t, int64(1), next(t, s).Value)

	value.Store(2)
	n.Notify(TableSettings)
	value.Store(3)
	n.Notify(TableConfigs)

	u := next(t, s)
	require.NoError(t, u.Err)
	assert.Equal(t, int64(3), u.Value)
}

func TestObserve_DeliversErrors(t *testing.T) {
	n := NewNotifier()
	boom := errors.New("boom")

	s := Observe(context.Background(), n, func(context.Context) (string, error) {
		return "", boom
	}, TableConfigs)
	defer s.Close()

	require.ErrorIs(t, next(t, s).Err, boom)
}

func TestObserve_CloseStopsStream(t *testing.T) {
	n := NewNotifier()

	s := Observe(context.Background(), n, func(context.Context) (int, error) {
		return 1, nil
	}, TableConfigs)

	next(t, s)
	s.Close()
	s.Close()

	_, ok := <-s.C
	assert.False(t, ok)
	assert.Zero(t, n.Watchers())
}

func TestObserve_ContextCancel(t *testing.T) {
	n := NewNotifier()
	ctx, cancel := context.WithCancel(context.Background())

	s := Observe(ctx, n, func(context.Context) (int, error) {
		return 1, nil
	}, TableConfigs)

	next(t, s)
	cancel()

	require.Eventually(t, func() bool {
		return n.Watchers() == 0
	}, waitFor, 10*time.Millisecond)
}

func TestObserve_SlowReaderGetsLatest(t *testing.T) {
	n := NewNotifier()

	var value atomic.Int64
	s := Observe(context.Background(), n, func(context.Context) (int64, error) {
		return value.Load(), nil
	}, TableKeyValues)
	defer s.Close()

	for i := int64(1); i <= 50; i++ {
		value.Store(i)
		n.Notify(TableKeyValues)
	}

	require.Eventually(t, func() bool {
		select {
		case u := <-s.C:
			return u.Value == 50
		default:
			return false
		}
	}, waitFor, 5*time.Millisecond)
}
