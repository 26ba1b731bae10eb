package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// baseVersion is the first enveloped layout; version 0 is the bare array.
const baseVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported schema version")
	ErrMissingMigration   = errors.New("missing schema migration")
)

// MigrateFunc rewrites the items of one schema version into the next.
type MigrateFunc func(items json.RawMessage) (json.RawMessage, error)

type envelope struct {
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// decodeEnvelope splits a stored value into its version and raw items.
func decodeEnvelope(b []byte) (envelope, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return envelope{Version: 0, Items: trimmed}, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return envelope{}, err
	}
	if len(env.Items) == 0 || bytes.Equal(env.Items, []byte("null")) {
		env.Items = json.RawMessage("[]")
	}
	return env, nil
}

// upgrade runs the migrations needed to bring env to version target.
func upgrade(env envelope, target int, migrations map[int]MigrateFunc) (json.RawMessage, error) {
	if env.Version < 0 || env.Version > target {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}

	items := env.Items
	for v := env.Version; v < target; v++ {
		if v == 0 {
			// The bare array carries the same records as version 1.
			continue
		}
		m, ok := migrations[v]
		if !ok {
			return nil, fmt.Errorf("%w: %d -> %d", ErrMissingMigration, v, v+1)
		}
		out, err := m(items)
		if err != nil {
			return nil, fmt.Errorf("migration %d -> %d: %w", v, v+1, err)
		}
		items = out
	}
	return items, nil
}

// Encode renders items in the base enveloped layout. Stores without
// registered migrations read it as current.
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: baseVersion, Items: raw})
}
