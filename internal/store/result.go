package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/db/controller/result"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/fault"
	"github.com/paramset/paramset/internal/live"
)

// InsertExecutionResult appends r. A result without a config is a terminal
// InvariantViolation.
func (s *Store) InsertExecutionResult(ctx context.Context, r models.ExecutionResult) (uint64, error) {
	if r.ConfigID == 0 {
		return 0, fault.Invariant("insert execution result", "config id missing")
	}

	var id uint64

	err := s.write(ctx, "insert execution result", r.ConfigID, []string{live.TableExecutionResults}, func(tx *gorm.DB) error {
		var err error
		id, err = result.Insert(tx, r)
		return err
	})

	return id, err
}

// ListExecutionResults returns the results of a config, newest first.
func (s *Store) ListExecutionResults(ctx context.Context, configID uint64) ([]models.ExecutionResult, error) {
	return result.ListByConfigID(s.read(ctx), configID)
}

// FetchExecutionResultEntriesByConfigID streams the results of a config, newest first.
func (s *Store) FetchExecutionResultEntriesByConfigID(ctx context.Context, configID uint64) *live.Stream[[]models.ExecutionResult] {
	return live.Observe(ctx, s.notifier, func(ctx context.Context) ([]models.ExecutionResult, error) {
		return s.ListExecutionResults(ctx, configID)
	}, live.TableExecutionResults)
}
