package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophconcierge/internal/dbx"
)

// PostgresRepository implements Repository over the kv table of a PostgreSQL
// database opened with the "pgx" database/sql driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (r *PostgresRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.set(ctx, r.db, key, value)
}

func (r *PostgresRepository) set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	query := `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *PostgresRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	write := func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if err := r.set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	}

	b, ok := r.db.(dbx.TxBeginner)
	if !ok {
		return write(ctx, r.db)
	}
	return dbx.WithTx(ctx, b, nil, write)
}

func (r *PostgresRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}
