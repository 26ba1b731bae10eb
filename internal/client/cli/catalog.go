package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
)

// Catalog is the built-in set of things a user can book, favorite or claim.
type Catalog struct {
	Events   []models.Event
	Services []models.ConciergeService
	Stores   []models.Store
	Offers   []models.Offer
}

// demoCatalog builds a catalog whose dates are relative to now so that the
// events stay upcoming.
func demoCatalog(now time.Time) *Catalog {
	day := func(d int) string { return now.AddDate(0, 0, d).Format(models.DateLayout) }

	return &Catalog{
		Events: []models.Event{
			{ID: "ev-spring-preview", Title: "Spring Collection Preview", Date: day(7), Time: "18:30", Location: "Atrium", Price: 0},
			{ID: "ev-wine-tasting", Title: "Wine Tasting Evening", Date: day(14), Time: "19:00", Location: "The Cellar", Price: 45},
			{ID: "ev-style-talk", Title: "Personal Style Talk", Date: day(21), Time: "11:00", Location: "Level 2 Lounge", Price: 0},
		},
		Services: []models.ConciergeService{
			{Type: "personal-shopping", Title: "Personal Shopping", Duration: "2 hours", Location: "Concierge Desk", Price: 150},
			{Type: "hands-free", Title: "Hands-Free Shopping", Duration: "All day", Location: "Concierge Desk", Price: 0},
			{Type: "valet", Title: "Valet Parking", Duration: "Per visit", Location: "North Entrance", Price: 25},
		},
		Stores: []models.Store{
			{ID: "st-chanel", Name: "Chanel", Slug: "chanel", Area: "Luxury Wing", Category: "Fashion", PriceRange: "$$$$", Rating: 4.8},
			{ID: "st-aesop", Name: "Aesop", Slug: "aesop", Area: "Garden Court", Category: "Beauty", PriceRange: "$$", Rating: 4.6},
			{ID: "st-lamarzocco", Name: "La Marzocco Cafe", Slug: "la-marzocco", Area: "Garden Court", Category: "Dining", PriceRange: "$", Rating: 4.4},
		},
		Offers: []models.Offer{
			{ID: "of-chanel-gift", Title: "Complimentary gift with purchase", Value: "Gift", StoreName: "Chanel", StoreSlug: "chanel",
				ValidUntil: now.AddDate(0, 2, 0), Terms: []string{"One per customer", "While stocks last"}},
			{ID: "of-aesop-15", Title: "15% off skincare", Value: "15%", StoreName: "Aesop", StoreSlug: "aesop",
				Terms: []string{"Excludes gift sets"}},
			{ID: "of-coffee", Title: "Free coffee upgrade", Value: "Upgrade", StoreName: "La Marzocco Cafe", StoreSlug: "la-marzocco",
				ValidUntil: now.AddDate(0, 0, 10)},
		},
	}
}

func (c *Catalog) Event(id string) (models.Event, bool) {
	for _, e := range c.Events {
		if e.ID == id {
			return e, true
		}
	}
	return models.Event{}, false
}

func (c *Catalog) Service(serviceType string) (models.ConciergeService, bool) {
	for _, s := range c.Services {
		if s.Type == serviceType {
			return s, true
		}
	}
	return models.ConciergeService{}, false
}

func (c *Catalog) Store(id string) (models.Store, bool) {
	for _, s := range c.Stores {
		if s.ID == id || s.Slug == id {
			return s, true
		}
	}
	return models.Store{}, false
}

func (c *Catalog) Offer(id string) (models.Offer, bool) {
	for _, o := range c.Offers {
		if o.ID == id {
			return o, true
		}
	}
	return models.Offer{}, false
}

// Catalog prints one section of the catalog, or all of them.
func (a *App) Catalog(ctx context.Context, args []string) error {
	section := "all"
	if len(args) > 0 {
		section = args[0]
	}

	show := func(name string) bool { return section == "all" || section == name }
	known := false

	if show("events") {
		known = true
		a.printf("Events:\n")
		for _, e := range a.catalog.Events {
			a.printf("  %-18s %s  %s %s  %s\n", e.ID, e.Title, e.Date, e.Time, e.Location)
		}
	}
	if show("services") {
		known = true
		a.printf("Concierge services:\n")
		for _, s := range a.catalog.Services {
			a.printf("  %-18s %s  %s  %.2f\n", s.Type, s.Title, s.Duration, s.Price)
		}
	}
	if show("stores") {
		known = true
		a.printf("Stores:\n")
		for _, s := range a.catalog.Stores {
			a.printf("  %-18s %s  %s  %s\n", s.ID, s.Name, s.Category, s.Area)
		}
	}
	if show("offers") {
		known = true
		a.printf("Offers:\n")
		for _, o := range a.catalog.Offers {
			until := "open"
			if !o.ValidUntil.IsZero() {
				until = o.ValidUntil.Format(models.DateLayout)
			}
			a.printf("  %-18s %s at %s (until %s)\n", o.ID, o.Title, o.StoreName, until)
		}
	}

	if !known {
		return usage("catalog [events|services|stores|offers]")
	}
	return nil
}
