package models

// KeyValue is one parameter of a Config. Keys are not unique within a config.
type KeyValue struct {
	// ID is the unique identifier for the key/value.
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	// ConfigID references the owning config.
	ConfigID uint64 `gorm:"not null;index" json:"configId"`
	// Key is the parameter name.
	Key string `gorm:"size:255;not null;default:''" json:"key"`
	// Value is the parameter value.
	Value string `gorm:"type:text;not null;default:''" json:"value"`
}

// TableName specifies the database table name for the KeyValue model.
func (KeyValue) TableName() string {
	return "key_values"
}

// KeyValueDraft is a key/value as submitted by the presentation layer, either
// NewKeyValue (to be inserted) or ExistingKeyValue (to be updated in place).
type KeyValueDraft interface {
	keyValueDraft()
}

// NewKeyValue is a key/value that has not been persisted yet.
type NewKeyValue struct {
	ConfigID uint64 `json:"configId"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// ExistingKeyValue is an edit of a persisted key/value.
type ExistingKeyValue struct {
	ID    uint64 `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (NewKeyValue) keyValueDraft()      {}
func (ExistingKeyValue) keyValueDraft() {}

// Row converts the draft into an insertable KeyValue without an ID.
func (n NewKeyValue) Row() KeyValue {
	return KeyValue{ConfigID: n.ConfigID, Key: n.Key, Value: n.Value}
}
