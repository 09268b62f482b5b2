// Package keyvalue provides CRUD operations for the key/values of a config.
package keyvalue

import (
	"errors"

	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/db/models"
)

var (
	// ErrKeyValueNotFound is returned when a key/value is not found.
	ErrKeyValueNotFound = errors.New("key/value not found")
	// ErrConfigIDMissing is returned when inserting a key/value without an owning config.
	ErrConfigIDMissing = errors.New("key/value config id missing")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Insert stores a new key/value and returns its id.
func Insert(db *gorm.DB, kv models.NewKeyValue) (uint64, error) {
	if db == nil {
		return 0, ErrDBNil
	}
	if kv.ConfigID == 0 {
		return 0, ErrConfigIDMissing
	}

	row := kv.Row()
	if err := db.Create(&row).Error; err != nil {
		return 0, err
	}

	return row.ID, nil
}

// Update rewrites key and value of an existing key/value in place.
// A missing id is a no-op.
func Update(db *gorm.DB, kv models.ExistingKeyValue) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.KeyValue{}).
		Where("id = ?", kv.ID).
		Updates(map[string]any{"key": kv.Key, "value": kv.Value}).Error
}

// Delete removes a key/value. A missing id is a no-op.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Delete(&models.KeyValue{}, id).Error
}

// Get retrieves a key/value by its ID.
func Get(db *gorm.DB, id uint64) (*models.KeyValue, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var kv models.KeyValue
	result := db.First(&kv, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrKeyValueNotFound
		}
		return nil, result.Error
	}

	return &kv, nil
}

// ListByConfigID returns the key/values of a config in ascending id order.
func ListByConfigID(db *gorm.DB, configID uint64) ([]models.KeyValue, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	kvs := []models.KeyValue{}
	if err := db.Where("config_id = ?", configID).Order("id").Find(&kvs).Error; err != nil {
		return nil, err
	}

	return kvs, nil
}
