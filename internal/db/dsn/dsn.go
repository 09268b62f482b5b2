// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/paramset/paramset/internal/config"
)

// MySQL builds a go-sql-driver/mysql DSN.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres builds a pgx keyword/value DSN. Extras are appended verbatim.
func Postgres(db config.DB) string {
	parts := []string{
		"host=" + db.Host,
		fmt.Sprintf("port=%d", db.Port),
		"user=" + db.User,
		"dbname=" + db.Name,
	}

	if db.Password != "" {
		parts = append(parts, "password="+db.Password)
	}

	if db.Extras != "" {
		parts = append(parts, db.Extras)
	}

	return strings.Join(parts, " ")
}

// SQLite builds a glebarez/sqlite DSN with foreign keys enforced and a busy timeout.
// The in-memory path ":memory:" is kept as a private in-memory database.
func SQLite(db config.DB) string {
	path := db.Path
	if path == ":memory:" {
		path = "file::memory:"
	}

	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if db.Extras != "" {
		params += "&" + db.Extras
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + params
}
