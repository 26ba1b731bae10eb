package kv

import "context"

// Repository describes raw byte storage addressed by string keys.
type Repository interface {
	// Get returns the stored value, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// SetMany upserts all pairs atomically.
	SetMany(ctx context.Context, values map[string][]byte) error
}

var (
	_ Repository = (*SQLiteRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
