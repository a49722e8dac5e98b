package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDSN names a shared in-memory database. Nothing outlives the process.
const DefaultDSN = "file:forensicdesk?mode=memory&cache=shared"

// Open opens sqlite with sensible defaults. A bare path is turned into a
// file DSN; anything starting with "file:" is used as-is.
func Open(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = DefaultDSN
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dsn)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: an in-memory database lives and dies with it
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}
