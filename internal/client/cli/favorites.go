package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
	"github.com/dmitrijs2005/gophconcierge/internal/client/services"
)

// Favorites handles "favorites [list [category]|add|remove|notes|notify]".
func (a *App) Favorites(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		var category string
		if len(args) > 1 {
			category = args[1]
		}
		return a.listFavorites(category)
	}

	f := a.session.Favorites
	switch args[0] {
	case "add":
		if len(args) != 2 {
			return usage("favorites add <storeId>")
		}
		store, ok := a.catalog.Store(args[1])
		if !ok {
			return fmt.Errorf("unknown store %q", args[1])
		}
		if _, err := f.AddFavorite(ctx, store); err != nil {
			return err
		}
		a.printf("%s added to favorites\n", store.Name)
		return nil

	case "remove":
		if len(args) != 2 {
			return usage("favorites remove <storeId>")
		}
		if err := f.RemoveFavorite(ctx, a.storeID(args[1])); err != nil {
			return err
		}
		a.printf("Removed\n")
		return nil

	case "notes":
		if len(args) != 2 {
			return usage("favorites notes <storeId>")
		}
		fav, ok := f.Get(a.storeID(args[1]))
		if !ok {
			return services.ErrNotFound
		}
		notes, err := GetMultiline(a.reader, "Notes for "+fav.StoreName, a.out)
		if err != nil {
			return err
		}
		return f.UpdateSettings(ctx, fav.ID, models.FavoriteSettings{
			Notes:          &notes,
			NotifyOfOffers: fav.NotifyOfOffers,
			NotifyOfEvents: fav.NotifyOfEvents,
		})

	case "notify":
		if len(args) != 4 || (args[2] != "offers" && args[2] != "events") || (args[3] != "on" && args[3] != "off") {
			return usage("favorites notify <storeId> offers|events on|off")
		}
		fav, ok := f.Get(a.storeID(args[1]))
		if !ok {
			return services.ErrNotFound
		}
		settings := models.FavoriteSettings{NotifyOfOffers: fav.NotifyOfOffers, NotifyOfEvents: fav.NotifyOfEvents}
		if args[2] == "offers" {
			settings.NotifyOfOffers = args[3] == "on"
		} else {
			settings.NotifyOfEvents = args[3] == "on"
		}
		return f.UpdateSettings(ctx, fav.ID, settings)

	default:
		return usage("favorites [list|add|remove|notes|notify]")
	}
}

// storeID resolves a catalog slug to its store id.
func (a *App) storeID(ref string) string {
	if s, ok := a.catalog.Store(ref); ok {
		return s.ID
	}
	return ref
}

func (a *App) listFavorites(category string) error {
	f := a.session.Favorites
	items := f.All()
	if category != "" {
		items = f.ByCategory(category)
	}
	if len(items) == 0 {
		a.printf("No favorites\n")
		return nil
	}
	for _, fav := range items {
		a.printf("  %-14s %s  %s / %s  offers=%t events=%t\n",
			fav.StoreID, fav.StoreName, fav.Category, fav.Area, fav.NotifyOfOffers, fav.NotifyOfEvents)
		if fav.Notes != "" {
			a.printf("      %s\n", strings.ReplaceAll(fav.Notes, "\n", "\n      "))
		}
	}
	a.printf("Categories: %s\n", strings.Join(f.Categories(), ", "))
	a.printf("Areas: %s\n", strings.Join(f.Areas(), ", "))
	return nil
}
