package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophconcierge/internal/dbx"
)

// SQLiteRepository implements Repository over the kv table of a SQLite database.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.set(ctx, r.db, key, value)
}

func (r *SQLiteRepository) set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	write := func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if err := r.set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	}

	// Already inside a transaction when bound to *sql.Tx.
	b, ok := r.db.(dbx.TxBeginner)
	if !ok {
		return write(ctx, r.db)
	}
	return dbx.WithTx(ctx, b, nil, write)
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}
