package database

import (
	"context"
	"database/sql"
	"fmt"
)

// OpenSeeded opens dsn and applies the embedded migrations, which create
// the schema and insert the fixed seed rows. It is safe to call on a
// database that is already migrated.
func OpenSeeded(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
