package config

import (
	"github.com/paramset/paramset/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Executor  Executor
	Updater   Updater
	Events    Events
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // seconds to wait for in-flight requests on shutdown
	URL            string // base url for the webserver
}

// Executor sizes the worker pool commands run on.
type Executor struct {
	Workers   int
	QueueSize int
}

// Updater configures the external update targets.
type Updater struct {
	// DefaultScheme is used for authorities without a scheme prefix.
	DefaultScheme string
	Local         LocalUpdater
	PowerDNS      PowerDNSUpdater
}

// LocalUpdater configures the settings:// target.
type LocalUpdater struct {
	// AllowedAuthorities restricts writable namespaces. Empty allows all but the system namespace.
	AllowedAuthorities []string
}

// PowerDNSUpdater configures the pdns:// target. An empty APIServerURL falls back
// to the server settings stored in the database.
type PowerDNSUpdater struct {
	APIServerURL string
	APIKey       string
	VHost        string
	TTL          uint32
}

// Events configures the change-event mirror. An empty NATSURL disables it.
type Events struct {
	NATSURL string
	Subject string
}
