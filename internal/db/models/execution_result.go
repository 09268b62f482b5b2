package models

import "time"

// ResultType classifies the outcome of one execution.
type ResultType string

const (
	// ResultSuccess means the external update call returned an affected count.
	ResultSuccess ResultType = "SUCCESS"
	// ResultAccessDenied means the external update call rejected the caller's permission.
	ResultAccessDenied ResultType = "ACCESS_DENIED"
	// ResultException means the external update call failed for any other reason.
	ResultException ResultType = "EXCEPTION"
)

// Valid reports whether t is one of the known result types.
func (t ResultType) Valid() bool {
	switch t {
	case ResultSuccess, ResultAccessDenied, ResultException:
		return true
	default:
		return false
	}
}

// ExecutionResult is the append-only record of one attempt to apply a Config.
type ExecutionResult struct {
	// ID is monotonically increasing and orders results by creation.
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	// ConfigID references the config that was applied.
	ConfigID uint64 `gorm:"not null;index" json:"configId"`
	// ResultType is the outcome classification.
	ResultType ResultType `gorm:"type:varchar(20);not null" json:"resultType"`
	// ValuesCount is the number of entries applied, 0 unless ResultType is SUCCESS.
	ValuesCount int `gorm:"not null;default:0" json:"valuesCount"`
	// Message describes the failure, set only for EXCEPTION.
	Message *string `gorm:"type:text" json:"message,omitempty"`
	// CreatedAt is the timestamp when the result was recorded (managed by GORM).
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the database table name for the ExecutionResult model.
func (ExecutionResult) TableName() string {
	return "execution_results"
}
