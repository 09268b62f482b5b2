package models

// Setting is a namespaced key/value stored by the application itself.
// The "settings" updater writes config parameters here, and the PowerDNS
// server settings are kept under SystemNamespace.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Namespace string `gorm:"size:255;not null;uniqueIndex:idx_settings_namespace_name"`
	Name      string `gorm:"size:255;not null;uniqueIndex:idx_settings_namespace_name"`
	Value     []byte
}

// SystemNamespace holds settings owned by paramset itself.
const SystemNamespace = "paramset"

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}

// All returns every model managed by AutoMigrate, parents first.
func All() []any {
	return []any{
		&Config{},
		&KeyValue{},
		&ExecutionResult{},
		&Setting{},
	}
}
