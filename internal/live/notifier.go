// Package live turns one-shot queries into live projections that re-run
// whenever a committed write touches a table they read.
package live

import (
	"sync"
)

// Table names watched by projections. They match the gorm table names.
const (
	TableConfigs          = "configs"
	TableKeyValues        = "key_values"
	TableExecutionResults = "execution_results"
	TableSettings         = "settings"
)

type watcher struct {
	tables map[string]struct{}
	signal chan struct{}
}

// Notifier is an in-process invalidation bus between writers and projections.
// The zero value is not usable, use NewNotifier.
type Notifier struct {
	mu       sync.Mutex
	nextID   uint64
	watchers map[uint64]*watcher
}

// NewNotifier returns an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{watchers: make(map[uint64]*watcher)}
}

// Watch registers interest in tables. The returned channel receives a value
// after every Notify touching one of them; signals arriving while one is
// pending are coalesced. cancel unregisters the watcher and is idempotent.
func (n *Notifier) Watch(tables ...string) (signal <-chan struct{}, cancel func()) {
	w := &watcher{
		tables: make(map[string]struct{}, len(tables)),
		signal: make(chan struct{}, 1),
	}
	for _, t := range tables {
		w.tables[t] = struct{}{}
	}

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.watchers[id] = w
	n.mu.Unlock()

	var once sync.Once

	return w.signal, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.watchers, id)
			n.mu.Unlock()
		})
	}
}

// Notify signals every watcher interested in at least one of tables.
// It never blocks.
func (n *Notifier) Notify(tables ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, w := range n.watchers {
		if !w.interested(tables) {
			continue
		}

		select {
		case w.signal <- struct{}{}:
		default:
		}
	}
}

// Watchers returns the number of registered watchers.
func (n *Notifier) Watchers() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.watchers)
}

func (w *watcher) interested(tables []string) bool {
	for _, t := range tables {
		if _, ok := w.tables[t]; ok {
			return true
		}
	}

	return false
}
