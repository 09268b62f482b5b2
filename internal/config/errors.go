package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortInvalid error if config webserver listening port is not positive.
	ErrWebServerPortInvalid = errors.New("toml config webserver.port listening port must be positive")

	// ErrDBEngineEmpty error if config db.engine is empty.
	ErrDBEngineEmpty = errors.New("toml config db.engine can not be empty")

	// ErrDBEngineUnknown error if config db.engine is not supported.
	ErrDBEngineUnknown = errors.New("toml config db.engine must be sqlite, mysql or postgres")

	// ErrDBPathEmpty error if the sqlite engine has no path.
	ErrDBPathEmpty = errors.New("toml config db.path can not be empty for sqlite")
)
