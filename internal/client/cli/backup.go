package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophconcierge/internal/client/backup"
)

// Export writes a snapshot of the session to the configured sink.
func (a *App) Export(ctx context.Context) error {
	key, err := a.exporter.Export(ctx, a.session)
	if err != nil {
		return err
	}
	a.printf("Exported to %s\n", key)
	return nil
}

// Import replaces the session's data with the snapshot stored under key
// and reloads it.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("import <key>")
	}

	snap, err := backup.Load(ctx, a.sink, args[0])
	if err != nil {
		return err
	}
	if err := backup.Restore(ctx, a.repos.KV, a.config.KeyPrefix, a.session.UserID, snap); err != nil {
		return err
	}

	a.session.Load(ctx)
	a.printf("Imported snapshot from %s\n", snap.ExportedAt.Format("2006-01-02 15:04"))
	return nil
}

// Wipe deletes every saved collection of the signed-in user after they
// retype their user id, then reloads the now empty session.
func (a *App) Wipe(ctx context.Context) error {
	userID := a.session.UserID
	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Type %q to delete all saved data", userID), a.out)
	if err != nil {
		return err
	}
	if answer != userID {
		a.printf("Wipe cancelled\n")
		return nil
	}

	err = backup.Wipe(ctx, a.adapter, a.config.KeyPrefix, userID)
	a.session.Load(ctx)
	if err != nil {
		return err
	}
	a.printf("Deleted saved data for %s\n", userID)
	return nil
}
