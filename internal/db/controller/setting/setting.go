// Package setting provides CRUD operations for namespaced settings rows.
//
// Settings are the local write target of the executor: every authority maps
// to a namespace and every key-value of an executed config becomes one row.
// The application itself keeps its own rows under models.SystemNamespace.
package setting

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/paramset/paramset/internal/db/models"
)

const (
	namespaceQueryPattern     = "namespace = ?"
	namespaceNameQueryPattern = "namespace = ? AND name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to create/update a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrNamespaceEmpty is returned when a namespace is required but empty.
	ErrNamespaceEmpty = errors.New("setting namespace cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by namespace and name.
func Get(db *gorm.DB, namespace, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if namespace == "" {
		return nil, ErrNamespaceEmpty
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var s models.Setting
	result := db.Where(namespaceNameQueryPattern, namespace, name).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &s, nil
}

// List retrieves all settings of a namespace ordered by name.
func List(db *gorm.DB, namespace string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if namespace == "" {
		return nil, ErrNamespaceEmpty
	}

	var settings []models.Setting
	result := db.Where(namespaceQueryPattern, namespace).Order("name").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Set creates or updates a setting (upsert on namespace and name).
func Set(db *gorm.DB, namespace, name string, value []byte) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if namespace == "" {
		return nil, ErrNamespaceEmpty
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	s := &models.Setting{Namespace: namespace, Name: name, Value: value}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(s)
	if result.Error != nil {
		return nil, result.Error
	}

	return Get(db, namespace, name)
}

// SetMany upserts every entry of values into namespace inside one transaction
// and returns the number of rows written.
func SetMany(db *gorm.DB, namespace string, values map[string]string) (int, error) {
	if db == nil {
		return 0, ErrDBNil
	}
	if namespace == "" {
		return 0, ErrNamespaceEmpty
	}

	written := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for name, value := range values {
			if _, err := Set(tx, namespace, name, []byte(value)); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

// Delete deletes a setting by namespace and name.
func Delete(db *gorm.DB, namespace, name string) error {
	if db == nil {
		return ErrDBNil
	}
	if namespace == "" {
		return ErrNamespaceEmpty
	}
	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.Where(namespaceNameQueryPattern, namespace, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
