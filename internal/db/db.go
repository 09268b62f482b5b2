// Package db opens the configured datastore and migrates the schema.
package db

import (
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/db/dsn"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/logger/adapter/stdlogger"
)

const slowQueryThreshold = 500 * time.Millisecond

// ErrUnknownEngine is returned for an engine Open has no dialector for.
var ErrUnknownEngine = errors.New("unknown database engine")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	switch cfg.Engine {
	case config.EngineSQLite:
		return sqlite.Open(dsn.SQLite(cfg)), nil
	case config.EngineMySQL:
		return mysql.Open(dsn.MySQL(cfg)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg)), nil
	default:
		return nil, errors.Wrapf(ErrUnknownEngine, "%q", cfg.Engine)
	}
}

// Open connects to the configured database and migrates every model.
// SQLite is pinned to a single connection: it has one writer, and an
// in-memory database only exists on the connection that created it.
func Open(cfg config.DB, sqlLevel string) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(stdlogger.New("gorm"), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  parseLogLevel(sqlLevel),
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.Engine == config.EngineSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to access sql.DB")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
