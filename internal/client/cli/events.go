package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
)

// Events handles "events [list|book <eventId> [guests]|cancel <bookingId>]".
func (a *App) Events(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		return a.listEvents()
	}

	switch args[0] {
	case "book":
		if len(args) < 2 || len(args) > 3 {
			return usage("events book <eventId> [guests]")
		}
		event, ok := a.catalog.Event(args[1])
		if !ok {
			return fmt.Errorf("unknown event %q", args[1])
		}
		guests := 1
		if len(args) == 3 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("guests: %w", err)
			}
			guests = n
		}
		requests, err := GetSimpleText(a.reader, "Special requests (optional)", a.out)
		if err != nil {
			return err
		}

		b, err := a.session.Events.BookEvent(ctx, event, guests, requests)
		if err != nil {
			return err
		}
		a.printf("Booked %s for %d guest(s), booking %s\n", b.EventTitle, b.Guests, b.ID)
		return nil

	case "cancel":
		if len(args) != 2 {
			return usage("events cancel <bookingId>")
		}
		if err := a.session.Events.CancelBooking(ctx, args[1]); err != nil {
			return err
		}
		a.printf("Booking %s cancelled\n", args[1])
		return nil

	default:
		return usage("events [list|book|cancel]")
	}
}

func (a *App) listEvents() error {
	now := a.now()
	show := func(title string, items []models.EventBooking) {
		a.printf("%s:\n", title)
		if len(items) == 0 {
			a.printf("  none\n")
		}
		for _, b := range items {
			a.printf("  %s  %s %s %s  guests=%d  %s\n", b.ID, b.EventDate, b.EventTime, b.EventTitle, b.Guests, b.Status)
		}
	}
	show("Upcoming", a.session.Events.Upcoming(now))
	show("Past", a.session.Events.Past(now))
	return nil
}
