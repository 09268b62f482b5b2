// Package command is the surface the presentation layer drives. Each
// operation validates the identities it needs, then runs the mutation or
// execution on the worker pool and hands navigation back to the Navigator.
// Executions wait on an external system and run outside the bounded lane
// that store mutations share.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/fault"
	"github.com/paramset/paramset/internal/worker"
)

// Navigator is owned by the presentation layer. It may be called from a
// worker goroutine.
type Navigator interface {
	ShowDetails(configID uint64)
	ShowKeyValueDetails(configID uint64, keyValueID *uint64)
	NotifyError(err error)
}

// Store is the part of the store the surface mutates and reads.
type Store interface {
	InsertEmptyConfig(ctx context.Context) (uint64, error)
	UpdateConfigName(ctx context.Context, name string, id uint64) error
	UpdateConfigAuthority(ctx context.Context, authority string, id uint64) error
	CloneConfigEntryWithoutResults(ctx context.Context, source models.ConfigEntry, newName string) (uint64, error)
	DeleteConfigEntry(ctx context.Context, entry models.ConfigEntry) error
	StoreKeyValue(ctx context.Context, draft models.KeyValueDraft) (uint64, error)
	DeleteKeyValue(ctx context.Context, id uint64) error
}

// Executor applies configs.
type Executor interface {
	Execute(ctx context.Context, id uint64) (*models.ExecutionResult, error)
	ExecuteEntry(ctx context.Context, entry models.ConfigEntry) (*models.ExecutionResult, error)
}

// Surface dispatches user commands.
type Surface struct {
	store    Store
	executor Executor
	pool     *worker.Pool
	nav      Navigator
}

// New returns a Surface that navigates nowhere until WithNavigator is used.
func New(store Store, executor Executor, pool *worker.Pool) *Surface {
	return &Surface{store: store, executor: executor, pool: pool, nav: discard{}}
}

// WithNavigator returns a copy of s reporting to nav.
func (s *Surface) WithNavigator(nav Navigator) *Surface {
	c := *s
	c.nav = nav

	return &c
}

// OnAddConfigClicked inserts an empty config and opens its details.
func (s *Surface) OnAddConfigClicked(ctx context.Context) *worker.Task[uint64] {
	return run(ctx, s, "add config", func(ctx context.Context) (uint64, error) {
		id, err := s.store.InsertEmptyConfig(ctx)
		if err != nil {
			return 0, err
		}

		s.nav.ShowDetails(id)

		return id, nil
	})
}

// OnEntryClicked opens the details of a list entry. An entry without a
// config id is a terminal fault.
func (s *Surface) OnEntryClicked(entry models.ConfigListEntry) error {
	if entry.Config.ID == 0 {
		return terminal(fault.Invariant("entry clicked", "config id missing"))
	}

	s.nav.ShowDetails(entry.Config.ID)

	return nil
}

// OnRenameConfig sets the name of config id.
func (s *Surface) OnRenameConfig(ctx context.Context, id uint64, name string) *worker.Task[struct{}] {
	return run(ctx, s, "rename config", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.UpdateConfigName(ctx, name, id)
	})
}

// OnAuthorityChanged sets the authority of config id.
func (s *Surface) OnAuthorityChanged(ctx context.Context, id uint64, authority string) *worker.Task[struct{}] {
	return run(ctx, s, "change authority", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.UpdateConfigAuthority(ctx, authority, id)
	})
}

// OnCloneClicked clones entry without its results. An empty newName becomes
// "<source name> (copy)".
func (s *Surface) OnCloneClicked(ctx context.Context, entry models.ConfigEntry, newName string) *worker.Task[uint64] {
	if newName == "" {
		newName = CopyName(entry.Config.Name)
	}

	return run(ctx, s, "clone config", func(ctx context.Context) (uint64, error) {
		return s.store.CloneConfigEntryWithoutResults(ctx, entry, newName)
	})
}

// OnDeleteClicked deletes entry with its key/values and results.
func (s *Surface) OnDeleteClicked(ctx context.Context, entry models.ConfigEntry) *worker.Task[struct{}] {
	return run(ctx, s, "delete config", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.DeleteConfigEntry(ctx, entry)
	})
}

// OnExecuteClicked applies an entry taken from the list.
func (s *Surface) OnExecuteClicked(ctx context.Context, entry models.ConfigEntry) *worker.Task[*models.ExecutionResult] {
	return runExternal(ctx, s, "execute config", func(ctx context.Context) (*models.ExecutionResult, error) {
		return s.executor.ExecuteEntry(ctx, entry)
	})
}

// EntrySource resolves list entries to full entries.
type EntrySource interface {
	GetConfigEntry(ctx context.Context, id uint64) (*models.ConfigEntry, error)
}

// ExecuteListed applies every entry of list through OnExecuteClicked and
// returns the results in list order. Entries deleted since the list was read
// are skipped. An entry without a config id is a terminal fault.
func (s *Surface) ExecuteListed(ctx context.Context, src EntrySource, list []models.ConfigListEntry) ([]models.ExecutionResult, error) {
	tasks := make([]*worker.Task[*models.ExecutionResult], 0, len(list))

	for _, item := range list {
		if item.Config.ID == 0 {
			return nil, terminal(fault.Invariant("execute listed", "config id missing"))
		}

		entry, err := src.GetConfigEntry(ctx, item.Config.ID)
		if errors.Is(err, fault.ErrNotFound) {
			log.Debug().Uint64("config_id", item.Config.ID).Msg("listed config is gone, not executed")
			continue
		}
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, s.OnExecuteClicked(ctx, *entry))
	}

	results := make([]models.ExecutionResult, 0, len(tasks))
	for _, t := range tasks {
		r, err := t.Wait(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}

	return results, nil
}

// OnDetailExecuteClicked applies config id. If the config is gone the
// Navigator is told about a recoverable NotFound and nothing is recorded.
func (s *Surface) OnDetailExecuteClicked(ctx context.Context, id uint64) *worker.Task[*models.ExecutionResult] {
	return runExternal(ctx, s, "execute config", func(ctx context.Context) (*models.ExecutionResult, error) {
		return s.executor.Execute(ctx, id)
	})
}

// OnAddKeyValueClicked opens an empty key/value form for configID.
func (s *Surface) OnAddKeyValueClicked(configID uint64) error {
	if configID == 0 {
		return terminal(fault.Invariant("add key value", "config id missing"))
	}

	s.nav.ShowKeyValueDetails(configID, nil)

	return nil
}

// OnKeyValueClicked opens the edit form of kv.
func (s *Surface) OnKeyValueClicked(kv models.KeyValue) error {
	if kv.ID == 0 || kv.ConfigID == 0 {
		return terminal(fault.Invariant("key value clicked", "key value %d of config %d lacks an id", kv.ID, kv.ConfigID))
	}

	id := kv.ID
	s.nav.ShowKeyValueDetails(kv.ConfigID, &id)

	return nil
}

// OnStoreKeyValue inserts a NewKeyValue or updates an ExistingKeyValue.
func (s *Surface) OnStoreKeyValue(ctx context.Context, draft models.KeyValueDraft) *worker.Task[uint64] {
	return run(ctx, s, "store key value", func(ctx context.Context) (uint64, error) {
		return s.store.StoreKeyValue(ctx, draft)
	})
}

// OnDeleteKeyValue deletes key/value id.
func (s *Surface) OnDeleteKeyValue(ctx context.Context, id uint64) *worker.Task[struct{}] {
	return run(ctx, s, "delete key value", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.DeleteKeyValue(ctx, id)
	})
}

// CopyName is the default name of a clone of a config named name.
func CopyName(name string) string {
	return fmt.Sprintf("%s (copy)", name)
}

// run submits fn to the bounded lane.
func run[T any](ctx context.Context, s *Surface, op string, fn func(ctx context.Context) (T, error)) *worker.Task[T] {
	return worker.Submit(ctx, s.pool, op, report(s.nav, op, fn))
}

// runExternal runs fn on its own goroutine.
func runExternal[T any](ctx context.Context, s *Surface, op string, fn func(ctx context.Context) (T, error)) *worker.Task[T] {
	return worker.Go(ctx, s.pool, op, report(s.nav, op, fn))
}

// report routes the recoverable faults of fn to nav.
func report[T any](nav Navigator, op string, fn func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		switch {
		case err == nil:
		case fault.IsRecoverable(err):
			log.Warn().Err(err).Str("op", op).Msg("command failed")
			nav.NotifyError(err)
		case fault.IsTerminal(err):
			terminal(err)
		default:
			log.Error().Err(err).Str("op", op).Msg("command failed")
		}

		return v, err
	}
}

func terminal(err error) error {
	log.Error().Err(err).Str("severity", fault.Terminal.String()).Msg("invariant violated")

	return err
}

type discard struct{}

func (discard) ShowDetails(uint64)                  {}
func (discard) ShowKeyValueDetails(uint64, *uint64) {}
func (discard) NotifyError(error)                   {}
