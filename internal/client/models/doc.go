// Package models defines the per-user records kept by the concierge stores
// and the read-only catalog snapshots passed in by callers.
//
// JSON field names are part of the persisted layout and must not change
// without a schema migration.
package models
