// Package kv provides the durable key/value medium behind the client-side
// persistence adapter.
//
// # Overview
//
// Repository stores opaque byte values under string keys. Three
// implementations are available:
//
//   - SQLiteRepository:   local SQLite file (modernc.org/sqlite), default
//   - PostgresRepository: PostgreSQL through the pgx stdlib driver
//   - MemoryRepository:   process-local map, for tests and throwaway runs
//
// The SQL implementations operate on a dbx.DBTX, so they can be bound to a
// *sql.DB or to a running *sql.Tx. The kv table itself is created by the
// goose migrations in internal/client/database.
//
// # Contract
//
// Get returns (nil, nil) for an absent key. Delete is idempotent. SetMany writes all pairs or none.
//
// Typical Usage
//
//	repo := kv.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "gc_favorites_u-1", payload)
//	v, _ := repo.Get(ctx, "gc_favorites_u-1")
//	_ = repo.Delete(ctx, "gc_favorites_u-1")
package kv
