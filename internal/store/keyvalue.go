package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/db/controller/keyvalue"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/fault"
	"github.com/paramset/paramset/internal/live"
)

// InsertKeyValue stores a new key/value and returns its fresh id.
func (s *Store) InsertKeyValue(ctx context.Context, kv models.NewKeyValue) (uint64, error) {
	if kv.ConfigID == 0 {
		return 0, fault.Invariant("insert key/value", "config id missing")
	}

	var id uint64

	err := s.write(ctx, "insert key/value", kv.ConfigID, []string{live.TableKeyValues}, func(tx *gorm.DB) error {
		var err error
		id, err = keyvalue.Insert(tx, kv)
		return err
	})

	return id, err
}

// UpdateKeyValue rewrites an existing key/value in place. A missing id is a no-op.
func (s *Store) UpdateKeyValue(ctx context.Context, kv models.ExistingKeyValue) error {
	if kv.ID == 0 {
		return fault.Invariant("update key/value", "key/value id missing")
	}

	return s.write(ctx, "update key/value", 0, []string{live.TableKeyValues}, func(tx *gorm.DB) error {
		return keyvalue.Update(tx, kv)
	})
}

// StoreKeyValue inserts a NewKeyValue or updates an ExistingKeyValue and
// returns the id of the affected row.
func (s *Store) StoreKeyValue(ctx context.Context, draft models.KeyValueDraft) (uint64, error) {
	switch kv := draft.(type) {
	case models.NewKeyValue:
		return s.InsertKeyValue(ctx, kv)
	case models.ExistingKeyValue:
		return kv.ID, s.UpdateKeyValue(ctx, kv)
	default:
		return 0, fault.Invariant("store key/value", "unsupported draft %T", draft)
	}
}

// DeleteKeyValue removes key/value id. A missing id is a no-op.
func (s *Store) DeleteKeyValue(ctx context.Context, id uint64) error {
	return s.write(ctx, "delete key/value", 0, []string{live.TableKeyValues}, func(tx *gorm.DB) error {
		return keyvalue.Delete(tx, id)
	})
}

// GetKeyValue returns key/value id or a recoverable NotFound fault.
func (s *Store) GetKeyValue(ctx context.Context, id uint64) (*models.KeyValue, error) {
	kv, err := keyvalue.Get(s.read(ctx), id)
	if errors.Is(err, keyvalue.ErrKeyValueNotFound) {
		return nil, fault.NotFound("get key/value", fmt.Errorf("%w: %d", err, id))
	}

	return kv, err
}

// ListKeyValues returns the key/values of a config in fetch order.
func (s *Store) ListKeyValues(ctx context.Context, configID uint64) ([]models.KeyValue, error) {
	return keyvalue.ListByConfigID(s.read(ctx), configID)
}

// KeyValueEntriesByConfigID streams the key/values of a config.
func (s *Store) KeyValueEntriesByConfigID(ctx context.Context, configID uint64) *live.Stream[[]models.KeyValue] {
	return live.Observe(ctx, s.notifier, func(ctx context.Context) ([]models.KeyValue, error) {
		return s.ListKeyValues(ctx, configID)
	}, live.TableKeyValues)
}

// KeyValueEntryByKeyValueID streams key/value id, or nil once it no longer exists.
func (s *Store) KeyValueEntryByKeyValueID(ctx context.Context, id uint64) *live.Stream[*models.KeyValue] {
	return live.Observe(ctx, s.notifier, func(ctx context.Context) (*models.KeyValue, error) {
		kv, err := s.GetKeyValue(ctx, id)
		return optional(kv, err)
	}, live.TableKeyValues)
}
