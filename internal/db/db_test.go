package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/db/models"
)

func TestDialector(t *testing.T) {
	testCases := []struct {
		name        string
		engine      string
		wantName    string
		expectedErr error
	}{
		{name: "sqlite", engine: config.EngineSQLite, wantName: "sqlite"},
		{name: "mysql", engine: config.EngineMySQL, wantName: "mysql"},
		{name: "postgres", engine: config.EnginePostgres, wantName: "postgres"},
		{name: "unknown", engine: "oracle", expectedErr: ErrUnknownEngine},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Dialector(config.DB{Engine: tc.engine, Path: ":memory:", Host: "h", Port: 1})
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantName, d.Name())
		})
	}
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paramset.db")

	db, err := Open(config.DB{Engine: config.EngineSQLite, Path: path}, "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_InMemory(t *testing.T) {
	db, err := Open(config.DB{Engine: config.EngineSQLite, Path: ":memory:"}, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Create(&models.Config{Name: "x"}).Error)

	var n int64
	require.NoError(t, db.Model(&models.Config{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, parseLogLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, parseLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, parseLogLevel(""))
}
