// Package models contains database model definitions.
package models

// Config is a named, reusable set of key/value parameters targeting one authority.
// The ID is assigned on insert and never reused.
type Config struct {
	// ID is the unique identifier for the config.
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	// Name is the user-editable display name, empty for a freshly added config.
	Name string `gorm:"size:255;not null;default:''" json:"name"`
	// Authority identifies the external target the parameters are applied to.
	Authority string `gorm:"size:255;not null;default:''" json:"authority"`

	// KeyValues and ExecutionResults only declare the cascading foreign keys;
	// they are never loaded or saved through the association.
	KeyValues        []KeyValue        `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE" json:"-"`
	ExecutionResults []ExecutionResult `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the database table name for the Config model.
func (Config) TableName() string {
	return "configs"
}

// ConfigEntry is a Config together with its key/values in fetch order.
// It is materialized for clone and execute and never stored as such.
type ConfigEntry struct {
	Config    Config     `json:"config"`
	KeyValues []KeyValue `json:"keyValues"`
}

// ConfigListEntry pairs a Config with its most recent execution result, if any.
type ConfigListEntry struct {
	Config       Config           `json:"config"`
	LatestResult *ExecutionResult `json:"latestResult,omitempty"`
}
