package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophconcierge/internal/client/codes"
	"github.com/dmitrijs2005/gophconcierge/internal/client/collection"
	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
)

// EventBookingStore keeps a user's event RSVPs. At most one booking that is
// not cancelled may exist per event.
type EventBookingStore struct {
	base
	items *collection.Store[models.EventBooking]
}

// NewEventBookingStore returns the event bookings of userID. Call Load
// before use.
func NewEventBookingStore(deps Deps, userID string) *EventBookingStore {
	b := newBase("events", userID, deps)
	return &EventBookingStore{
		base: b,
		items: collection.New[models.EventBooking](
			b.deps.Adapter,
			storage.Key(b.deps.KeyPrefix, storage.DomainEventBookings, userID),
			collection.WithValidator(validateAll[models.EventBooking]),
		),
	}
}

func (s *EventBookingStore) Load(ctx context.Context) { s.items.Load(ctx) }
func (s *EventBookingStore) IsLoading() bool { return s.items.IsLoading() }
func (s *EventBookingStore) Err() string { return s.items.Err() }
func (s *EventBookingStore) ClearError() { s.items.ClearError() }

// BookEvent books guests seats for event. It returns ErrAlreadyBooked while
// an earlier booking for the same event is still active.
func (s *EventBookingStore) BookEvent(ctx context.Context, event models.Event, guests int, specialRequests string) (*models.EventBooking, error) {
	s.wait()

	if event.ID == "" {
		return nil, s.finish(ctx, "book", invalid("event id is empty"))
	}
	if guests < 1 {
		return nil, s.finish(ctx, "book", invalid("guests must be at least 1, got %d", guests))
	}
	if _, err := models.ParseDateTime(event.Date, event.Time, s.deps.Location); err != nil {
		return nil, s.finish(ctx, "book", invalid("%v", err))
	}

	booking := models.EventBooking{
		ID:              codes.NewID(),
		EventID:         event.ID,
		EventTitle:      event.Title,
		EventDate:       event.Date,
		EventTime:       event.Time,
		Location:        event.Location,
		Guests:          guests,
		SpecialRequests: strings.TrimSpace(specialRequests),
		Status:          models.BookingConfirmed,
		BookedAt:        s.now(),
	}

	err := s.items.Update(ctx, func(prev []models.EventBooking) ([]models.EventBooking, error) {
		for _, b := range prev {
			if b.EventID == event.ID && b.Status != models.BookingCancelled {
				return nil, ErrAlreadyBooked
			}
		}
		return append(prev, booking), nil
	})
	if err != nil {
		return nil, s.finish(ctx, "book", err)
	}
	return &booking, s.finish(ctx, "book", nil)
}

// CancelBooking marks the booking cancelled. Cancelling twice is a no-op.
func (s *EventBookingStore) CancelBooking(ctx context.Context, id string) error {
	s.wait()
	return s.finish(ctx, "cancel", cancelBooking(ctx, s.items, id,
		func(b *models.EventBooking) (string, *models.BookingStatus) { return b.ID, &b.Status }))
}

func (s *EventBookingStore) IsBooked(eventID string) bool {
	_, ok := s.GetBooking(eventID)
	return ok
}

// GetBooking returns the active booking for eventID.
func (s *EventBookingStore) GetBooking(eventID string) (*models.EventBooking, bool) {
	b, ok := s.items.Find(func(b models.EventBooking) bool {
		return b.EventID == eventID && b.Status != models.BookingCancelled
	})
	if !ok {
		return nil, false
	}
	return &b, true
}

// Upcoming lists active bookings whose event starts after now, soonest first.
func (s *EventBookingStore) Upcoming(now time.Time) []models.EventBooking {
	out := s.items.Filter(func(b models.EventBooking) bool {
		return b.Status != models.BookingCancelled && s.startsAfter(b, now)
	})
	s.sortByStart(out)
	return out
}

// Past lists cancelled bookings and bookings whose event has started or
// whose date cannot be read.
func (s *EventBookingStore) Past(now time.Time) []models.EventBooking {
	out := s.items.Filter(func(b models.EventBooking) bool {
		return b.Status == models.BookingCancelled || !s.startsAfter(b, now)
	})
	s.sortByStart(out)
	slices.Reverse(out)
	return out
}

func (s *EventBookingStore) All() []models.EventBooking {
	return s.items.Items()
}

func (s *EventBookingStore) startsAfter(b models.EventBooking, now time.Time) bool {
	t, err := b.StartsAt(s.deps.Location)
	return err == nil && t.After(now)
}

func (s *EventBookingStore) sortByStart(items []models.EventBooking) {
	start := func(b models.EventBooking) time.Time {
		t, _ := b.StartsAt(s.deps.Location)
		return t
	}
	slices.SortStableFunc(items, func(a, b models.EventBooking) int {
		return start(a).Compare(start(b))
	})
}

func (s *EventBookingStore) reset() { s.items.Reset() }

// cancelBooking sets the status of the record with id to cancelled.
// fields exposes the id and status of a record.
func cancelBooking[T any](ctx context.Context, items *collection.Store[T], id string, fields func(*T) (string, *models.BookingStatus)) error {
	if id == "" {
		return invalid("booking id is empty")
	}
	return items.Update(ctx, func(prev []T) ([]T, error) {
		for i := range prev {
			rid, status := fields(&prev[i])
			if rid != id {
				continue
			}
			*status = models.BookingCancelled
			return prev, nil
		}
		return nil, ErrNotFound
	})
}
