package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/db/controller/config"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/fault"
	"github.com/paramset/paramset/internal/live"
)

// InsertEmptyConfig inserts a config with blank name and authority.
func (s *Store) InsertEmptyConfig(ctx context.Context) (uint64, error) {
	var id uint64

	err := s.write(ctx, "insert config", 0, []string{live.TableConfigs}, func(tx *gorm.DB) error {
		var err error
		id, err = config.InsertEmpty(tx)
		return err
	})

	return id, err
}

// UpdateConfigName renames config id. A missing id is a no-op.
func (s *Store) UpdateConfigName(ctx context.Context, name string, id uint64) error {
	return s.write(ctx, "update config name", id, []string{live.TableConfigs}, func(tx *gorm.DB) error {
		return config.UpdateName(tx, id, name)
	})
}

// UpdateConfigAuthority retargets config id. A missing id is a no-op.
func (s *Store) UpdateConfigAuthority(ctx context.Context, authority string, id uint64) error {
	return s.write(ctx, "update config authority", id, []string{live.TableConfigs}, func(tx *gorm.DB) error {
		return config.UpdateAuthority(tx, id, authority)
	})
}

// CloneConfigEntryWithoutResults copies source and its key/values under a new
// config named newName. Execution results stay with the source.
func (s *Store) CloneConfigEntryWithoutResults(ctx context.Context, source models.ConfigEntry, newName string) (uint64, error) {
	var id uint64

	tables := []string{live.TableConfigs, live.TableKeyValues}
	err := s.write(ctx, "clone config", source.Config.ID, tables, func(tx *gorm.DB) error {
		var err error
		id, err = config.Clone(tx, source, newName)
		return err
	})

	return id, err
}

// DeleteConfigEntry deletes the config of entry with all its key/values and results.
func (s *Store) DeleteConfigEntry(ctx context.Context, entry models.ConfigEntry) error {
	id := entry.Config.ID
	if id == 0 {
		return fault.Invariant("delete config", "config id missing")
	}

	tables := []string{live.TableConfigs, live.TableKeyValues, live.TableExecutionResults}

	return s.write(ctx, "delete config", id, tables, func(tx *gorm.DB) error {
		return config.Delete(tx, id)
	})
}

// GetConfig returns config id or a recoverable NotFound fault.
func (s *Store) GetConfig(ctx context.Context, id uint64) (*models.Config, error) {
	c, err := config.Get(s.read(ctx), id)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fault.NotFound("get config", err)
	}

	return c, err
}

// GetConfigEntry returns config id with its key/values or a recoverable NotFound fault.
func (s *Store) GetConfigEntry(ctx context.Context, id uint64) (*models.ConfigEntry, error) {
	entry, err := config.GetEntry(s.read(ctx), id)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fault.NotFound("get config entry", err)
	}

	return entry, err
}

// ListConfigEntries returns every config with its latest execution result.
func (s *Store) ListConfigEntries(ctx context.Context) ([]models.ConfigListEntry, error) {
	return config.ListEntries(s.read(ctx))
}

// FetchConfigByID streams config id, or nil once it no longer exists.
func (s *Store) FetchConfigByID(ctx context.Context, id uint64) *live.Stream[*models.Config] {
	return live.Observe(ctx, s.notifier, func(ctx context.Context) (*models.Config, error) {
		c, err := s.GetConfig(ctx, id)
		return optional(c, err)
	}, live.TableConfigs)
}

// FetchConfigEntries streams the config list annotated with latest results.
func (s *Store) FetchConfigEntries(ctx context.Context) *live.Stream[[]models.ConfigListEntry] {
	return live.Observe(ctx, s.notifier, s.ListConfigEntries, live.TableConfigs, live.TableExecutionResults)
}

// FetchConfigEntryByID streams config id with its key/values, or nil once it no longer exists.
func (s *Store) FetchConfigEntryByID(ctx context.Context, id uint64) *live.Stream[*models.ConfigEntry] {
	return live.Observe(ctx, s.notifier, func(ctx context.Context) (*models.ConfigEntry, error) {
		entry, err := s.GetConfigEntry(ctx, id)
		return optional(entry, err)
	}, live.TableConfigs, live.TableKeyValues)
}

// optional turns a NotFound fault into an absent value.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, fault.ErrNotFound) {
		return nil, nil
	}

	return v, err
}
