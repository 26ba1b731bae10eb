// Package cli provides the interactive GophConcierge command-line client.
//
// It wires configuration, the key-value store, the per-user session stores
// and an interactive REPL. Typical flow: log in with a token (or dev-login
// locally), then book, favorite and claim from the built-in catalog.
//
// Commands:
//   - login / dev-login / logout
//   - catalog
//   - events, concierge, favorites, offers
//   - export / import snapshots
//   - status, stats
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
