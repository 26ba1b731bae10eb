// Package services holds the per-user domain stores and the session that
// owns them. Each store wraps a collection.Store and adds its own
// invariants, lifecycle operations and derived views.
//
// Store operations return sentinel errors for business outcomes
// (ErrAlreadyBooked, ErrNotFound, ...). Persistence failures are not
// returned: the change stays in memory and the store's Err reports it.
package services
