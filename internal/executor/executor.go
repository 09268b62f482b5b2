// Package executor applies a config to its authority and records the outcome
// as exactly one execution result.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/fault"
	runlog "github.com/paramset/paramset/internal/logger"
	"github.com/paramset/paramset/internal/updater"
)

// Store is the part of the store the executor reads from and records into.
type Store interface {
	GetConfigEntry(ctx context.Context, id uint64) (*models.ConfigEntry, error)
	InsertExecutionResult(ctx context.Context, r models.ExecutionResult) (uint64, error)
}

// Executor runs the apply-config protocol against one updater.
type Executor struct {
	store   Store
	updater updater.Updater
}

// New returns an Executor. u receives the full authority of each config.
func New(store Store, u updater.Updater) *Executor {
	return &Executor{store: store, updater: u}
}

// BuildParameters folds kvs into one mapping in slice order; a later duplicate
// key overwrites an earlier one.
func BuildParameters(kvs []models.KeyValue) map[string]string {
	params := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		params[kv.Key] = kv.Value
	}

	return params
}

// Classify maps the outcome of an update call onto a result type, the values
// count to record and the failure message, if any.
func Classify(count int, err error) (models.ResultType, int, *string) {
	switch {
	case err == nil:
		if count < 0 {
			count = 0
		}
		return models.ResultSuccess, count, nil
	case errors.Is(err, updater.ErrPermissionDenied):
		return models.ResultAccessDenied, 0, nil
	default:
		msg := err.Error()
		if msg == "" {
			return models.ResultException, 0, nil
		}
		return models.ResultException, 0, &msg
	}
}

// Execute resolves config id and applies it. A missing config yields a
// recoverable NotFound fault and records nothing.
func (e *Executor) Execute(ctx context.Context, id uint64) (*models.ExecutionResult, error) {
	entry, err := e.store.GetConfigEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	return e.ExecuteEntry(ctx, *entry)
}

// ExecuteEntry applies entry and records the outcome. Failures of the update
// call end up in the returned result, never in the error.
func (e *Executor) ExecuteEntry(ctx context.Context, entry models.ConfigEntry) (*models.ExecutionResult, error) {
	if entry.Config.ID == 0 {
		return nil, fault.Invariant("execute", "config id missing")
	}

	logger := runlog.Run(uuid.NewString(), entry.Config.ID, entry.Config.Authority)

	params := BuildParameters(entry.KeyValues)

	start := time.Now()
	count, callErr := e.call(ctx, entry.Config.Authority, params)
	executionDuration.Observe(time.Since(start).Seconds())

	resultType, valuesCount, message := Classify(count, callErr)
	executionsTotal.WithLabelValues(string(resultType)).Inc()

	r := models.ExecutionResult{
		ConfigID:    entry.Config.ID,
		ResultType:  resultType,
		ValuesCount: valuesCount,
		Message:     message,
	}

	id, err := e.store.InsertExecutionResult(ctx, r)
	if err != nil {
		logger.Error().Err(err).Str("result", string(resultType)).Msg("failed to record execution result")
		return nil, err
	}
	r.ID = id

	event := logger.Info()
	if callErr != nil {
		event = logger.Warn().Err(callErr)
	}
	event.Str("result", string(resultType)).
		Int("values_count", valuesCount).
		Int("params", len(params)).
		Dur("took", time.Since(start)).
		Msg("config executed")

	return &r, nil
}

// call invokes the updater; a panic inside it counts as an ordinary failure.
func (e *Executor) call(ctx context.Context, authority string, params map[string]string) (count int, err error) {
	defer func() {
		if v := recover(); v != nil {
			count, err = 0, fmt.Errorf("update panicked: %v", v)
		}
	}()

	return e.updater.Update(ctx, authority, params)
}
