package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Field names shared by every log line that belongs to one execution run.
const (
	FieldRunID     = "run_id"
	FieldConfigID  = "config_id"
	FieldAuthority = "authority"
)

// Run returns a child of the global logger bound to one execution run.
func Run(runID string, configID uint64, authority string) zerolog.Logger {
	return log.With().
		Str(FieldRunID, runID).
		Uint64(FieldConfigID, configID).
		Str(FieldAuthority, authority).
		Logger()
}
