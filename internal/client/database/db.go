// Package database opens the durable store selected by configuration, applies
// the embedded goose migrations and hands out the matching kv.Repository.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophconcierge/internal/client/database/migrations"
	"github.com/dmitrijs2005/gophconcierge/internal/client/repositories/kv"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrUnknownDriver = errors.New("unknown database driver")

// Repositories groups the repositories backed by one opened database.
type Repositories struct {
	KV kv.Repository

	db *sql.DB
}

func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// seams for tests
var (
	openDB = sql.Open

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// RunMigrations applies the migrations of the given driver's dialect.
func RunMigrations(ctx context.Context, driver string, db *sql.DB) error {
	dialect, dir, err := dialectFor(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func dialectFor(driver string) (dialect, dir string, err error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", "sqlite", nil
	case DriverPostgres:
		return "pgx", "postgres", nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// InitDatabase opens the store for driver/dsn and returns its repositories.
// The memory driver ignores dsn and keeps everything in process.
func InitDatabase(ctx context.Context, driver, dsn string) (*Repositories, error) {
	var sqlDriver string
	switch driver {
	case DriverMemory:
		return &Repositories{KV: kv.NewMemoryRepository()}, nil
	case DriverSQLite:
		sqlDriver = "sqlite"
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := openDB(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	// SQLite allows a single writer per file; a larger pool makes
	// concurrent collection loads fail with SQLITE_BUSY.
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	if err := RunMigrations(ctx, driver, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := &Repositories{db: db}
	if driver == DriverPostgres {
		repos.KV = kv.NewPostgresRepository(db)
	} else {
		repos.KV = kv.NewSQLiteRepository(db)
	}
	return repos, nil
}
