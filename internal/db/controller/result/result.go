// Package result stores and lists execution results. Rows are append-only.
package result

import (
	"errors"

	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/db/models"
)

var (
	// ErrConfigIDMissing is returned when a result is not attributable to a config.
	ErrConfigIDMissing = errors.New("execution result config id missing")
	// ErrInvalidResultType is returned for a result type outside the known set.
	ErrInvalidResultType = errors.New("invalid execution result type")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Insert appends r and returns its id. Any id already set on r is ignored.
func Insert(db *gorm.DB, r models.ExecutionResult) (uint64, error) {
	if db == nil {
		return 0, ErrDBNil
	}
	if r.ConfigID == 0 {
		return 0, ErrConfigIDMissing
	}
	if !r.ResultType.Valid() {
		return 0, ErrInvalidResultType
	}

	r.ID = 0
	if err := db.Create(&r).Error; err != nil {
		return 0, err
	}

	return r.ID, nil
}

// ListByConfigID returns the results of a config, newest first.
func ListByConfigID(db *gorm.DB, configID uint64) ([]models.ExecutionResult, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	results := []models.ExecutionResult{}
	if err := db.Where("config_id = ?", configID).Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
