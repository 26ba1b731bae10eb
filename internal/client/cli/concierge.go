package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
)

// Concierge handles "concierge [list [type]|book <type> <date> [time]|cancel <id>]".
func (a *App) Concierge(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		var filter string
		if len(args) > 1 {
			filter = args[1]
		}
		return a.listConcierge(filter)
	}

	switch args[0] {
	case "book":
		if len(args) < 3 || len(args) > 4 {
			return usage("concierge book <serviceType> <yyyy-mm-dd> [hh:mm]")
		}
		svc, ok := a.catalog.Service(args[1])
		if !ok {
			return fmt.Errorf("unknown service %q", args[1])
		}
		req := models.ConciergeRequest{Date: args[2]}
		if len(args) == 4 {
			req.Time = args[3]
		}

		var err error
		if req.Location, err = GetSimpleText(a.reader, "Location (Enter for "+svc.Location+")", a.out); err != nil {
			return err
		}
		if req.SpecialRequests, err = GetSimpleText(a.reader, "Special requests (optional)", a.out); err != nil {
			return err
		}
		if svc.Type == "personal-shopping" {
			prefs, err := a.readPreferences()
			if err != nil {
				return err
			}
			req.Preferences = prefs
		}

		b, err := a.session.Concierge.BookService(ctx, svc, req)
		if err != nil {
			return err
		}
		a.printf("Booked %s on %s at %s, booking %s\n", b.ServiceTitle, b.Date, b.Location, b.ID)
		return nil

	case "cancel":
		if len(args) != 2 {
			return usage("concierge cancel <bookingId>")
		}
		if err := a.session.Concierge.CancelBooking(ctx, args[1]); err != nil {
			return err
		}
		a.printf("Booking %s cancelled\n", args[1])
		return nil

	default:
		return usage("concierge [list|book|cancel]")
	}
}

func (a *App) readPreferences() (*models.ConciergePreferences, error) {
	stylist, err := GetSimpleText(a.reader, "Preferred stylist (optional)", a.out)
	if err != nil {
		return nil, err
	}
	budget, err := GetSimpleText(a.reader, "Budget (optional)", a.out)
	if err != nil {
		return nil, err
	}
	cats, err := GetSimpleText(a.reader, "Categories, comma separated (optional)", a.out)
	if err != nil {
		return nil, err
	}

	p := &models.ConciergePreferences{Stylist: stylist, Budget: budget}
	for _, c := range strings.Split(cats, ",") {
		if c = strings.TrimSpace(c); c != "" {
			p.Categories = append(p.Categories, c)
		}
	}
	if p.Stylist == "" && p.Budget == "" && len(p.Categories) == 0 {
		return nil, nil
	}
	return p, nil
}

func (a *App) listConcierge(serviceType string) error {
	items := a.session.Concierge.All()
	if serviceType != "" {
		items = a.session.Concierge.ByServiceType(serviceType)
	}
	if len(items) == 0 {
		a.printf("No concierge bookings\n")
		return nil
	}
	for _, b := range items {
		a.printf("  %s  %s %s %s  %s  %s\n", b.ID, b.Date, b.Time, b.ServiceTitle, b.Location, b.Status)
	}
	return nil
}
