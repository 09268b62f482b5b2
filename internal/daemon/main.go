// Package daemon wires the datastore, the updaters, the executor and the
// command surface together, and serves them over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/db"
	"github.com/paramset/paramset/internal/db/controller/pdnsserver"
	"github.com/paramset/paramset/internal/events"
	"github.com/paramset/paramset/internal/executor"
	"github.com/paramset/paramset/internal/powerdns"
	"github.com/paramset/paramset/internal/store"
	"github.com/paramset/paramset/internal/updater"
	"github.com/paramset/paramset/internal/updater/local"
	"github.com/paramset/paramset/internal/web"
	"github.com/paramset/paramset/internal/web/handler"
	"github.com/paramset/paramset/internal/worker"
)

const (
	// SchemeSettings routes an authority to the local settings table.
	SchemeSettings = "settings"
	// SchemePowerDNS routes an authority to a PowerDNS zone.
	SchemePowerDNS = "pdns"
)

// Daemon holds the running application.
type Daemon struct {
	cfg       *config.Config
	db        *gorm.DB
	pool      *worker.Pool
	publisher events.Publisher

	Store    *store.Store
	Executor *executor.Executor
	Surface  *command.Surface
	PDNS     *powerdns.Updater
}

// New opens the datastore and builds everything a command needs.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gdb, err := db.Open(cfg.DB, cfg.Log.SQLLevel)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	publisher, err := newPublisher(cfg.Events)
	if err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	s, err := store.New(gdb, store.WithPublisher(publisher, cfg.Events.Subject))
	if err != nil {
		_ = publisher.Close()
		_ = db.Close(gdb)
		return nil, err
	}

	pdns := powerdns.New(staticPDNS(cfg.Updater.PowerDNS), s)

	mux := updater.NewMux(cfg.Updater.DefaultScheme)
	mux.Handle(SchemeSettings, local.New(s, cfg.Updater.Local.AllowedAuthorities))
	mux.Handle(SchemePowerDNS, pdns)

	exec := executor.New(s, mux)
	pool := worker.New(cfg.Executor.Workers, cfg.Executor.QueueSize)

	d := &Daemon{
		cfg:       cfg,
		db:        gdb,
		pool:      pool,
		publisher: publisher,
		Store:     s,
		Executor:  exec,
		Surface:   command.New(s, exec, pool),
		PDNS:      pdns,
	}

	seed(context.Background(), cfg, s)

	log.Debug().
		Str("engine", cfg.DB.Engine).
		Strs("schemes", mux.Schemes()).
		Int("workers", cfg.Executor.Workers).
		Msg("daemon initialized")

	return d, nil
}

// Start serves the HTTP API until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	service := web.New(d.cfg, &handler.Deps{Store: d.Store, Surface: d.Surface, PDNS: d.PDNS})

	errs := make(chan error, 1)
	go func() {
		errs <- service.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
	}()

	log.Info().Int("port", d.cfg.Webserver.Port).Msg("paramset API started")

	stopped := make(chan struct{})
	go func() {
		service.WaitShutdown()
		close(stopped)
	}()

	select {
	case err := <-errs:
		return err
	case <-stopped:
		return nil
	}
}

// Close drains pending store writes, cancels executions still waiting on
// their authority and releases the datastore.
func (d *Daemon) Close() error {
	d.pool.Close()

	return errors.Join(d.publisher.Close(), db.Close(d.db))
}

func newPublisher(cfg config.Events) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}, nil
	}

	p, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("connect events: %w", err)
	}

	log.Info().Str("url", cfg.NATSURL).Str("subject", cfg.Subject).Msg("mirroring table changes to NATS")

	return p, nil
}

func staticPDNS(cfg config.PowerDNSUpdater) *pdnsserver.Settings {
	if cfg.APIServerURL == "" {
		return nil
	}

	return &pdnsserver.Settings{
		APIServerURL: cfg.APIServerURL,
		APIKey:       cfg.APIKey,
		VHost:        cfg.VHost,
		TTL:          cfg.TTL,
	}
}
