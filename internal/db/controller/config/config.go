// Package config provides CRUD and cascading operations for Config rows.
package config

import (
	"errors"

	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/db/models"
)

const (
	idQueryPattern       = "id = ?"
	configIDQueryPattern = "config_id = ?"
)

var (
	// ErrConfigNotFound is returned when a config is not found.
	ErrConfigNotFound = errors.New("config not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// InsertEmpty inserts a config with blank name and authority and returns its id.
func InsertEmpty(db *gorm.DB) (uint64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	c := models.Config{}
	if err := db.Create(&c).Error; err != nil {
		return 0, err
	}

	return c.ID, nil
}

// UpdateName sets the name of config id. A missing id is a no-op.
func UpdateName(db *gorm.DB, id uint64, name string) error {
	return updateColumn(db, id, "name", name)
}

// UpdateAuthority sets the authority of config id. A missing id is a no-op.
func UpdateAuthority(db *gorm.DB, id uint64, authority string) error {
	return updateColumn(db, id, "authority", authority)
}

func updateColumn(db *gorm.DB, id uint64, column, value string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.Config{}).Where(idQueryPattern, id).Update(column, value).Error
}

// Get retrieves a config by its ID.
func Get(db *gorm.DB, id uint64) (*models.Config, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Config
	result := db.First(&c, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, result.Error
	}

	return &c, nil
}

// GetEntry retrieves a config together with its key/values in ascending id
// order. Both reads share one transaction, so the entry never mixes states
// from either side of a concurrent write.
func GetEntry(db *gorm.DB, id uint64) (*models.ConfigEntry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entry *models.ConfigEntry

	err := db.Transaction(func(tx *gorm.DB) error {
		c, err := Get(tx, id)
		if err != nil {
			return err
		}

		var kvs []models.KeyValue
		if err = tx.Where(configIDQueryPattern, id).Order("id").Find(&kvs).Error; err != nil {
			return err
		}

		entry = &models.ConfigEntry{Config: *c, KeyValues: kvs}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ListEntries returns every config in ascending id order, each annotated with
// its most recent execution result.
func ListEntries(db *gorm.DB) ([]models.ConfigListEntry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var configs []models.Config
	if err := db.Order("id").Find(&configs).Error; err != nil {
		return nil, err
	}

	var latest []models.ExecutionResult
	err := db.Where("id IN (?)",
		db.Model(&models.ExecutionResult{}).Select("MAX(id)").Group("config_id"),
	).Find(&latest).Error
	if err != nil {
		return nil, err
	}

	byConfig := make(map[uint64]models.ExecutionResult, len(latest))
	for _, r := range latest {
		byConfig[r.ConfigID] = r
	}

	entries := make([]models.ConfigListEntry, 0, len(configs))
	for _, c := range configs {
		entry := models.ConfigListEntry{Config: c}
		if r, ok := byConfig[c.ID]; ok {
			entry.LatestResult = &r
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Clone inserts a new config named name with the authority of source and a
// copy of every source key/value under the new id. Execution results are not
// copied. Either everything is inserted or nothing is.
func Clone(db *gorm.DB, source models.ConfigEntry, name string) (uint64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var id uint64
	err := db.Transaction(func(tx *gorm.DB) error {
		c := models.Config{Name: name, Authority: source.Config.Authority}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		id = c.ID

		if len(source.KeyValues) == 0 {
			return nil
		}

		kvs := make([]models.KeyValue, 0, len(source.KeyValues))
		for _, kv := range source.KeyValues {
			kvs = append(kvs, models.KeyValue{ConfigID: c.ID, Key: kv.Key, Value: kv.Value})
		}

		return tx.Create(&kvs).Error
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Delete removes config id together with every key/value and execution
// result referencing it. A missing id is a no-op.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(configIDQueryPattern, id).Delete(&models.KeyValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where(configIDQueryPattern, id).Delete(&models.ExecutionResult{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Config{}, id).Error
	})
}
