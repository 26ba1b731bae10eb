package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophconcierge/internal/client/codes"
	"github.com/dmitrijs2005/gophconcierge/internal/client/collection"
	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
)

// ConciergeBookingStore keeps a user's concierge bookings. The same service
// may be booked any number of times.
type ConciergeBookingStore struct {
	base
	items *collection.Store[models.ConciergeBooking]
}

// NewConciergeBookingStore returns the concierge bookings of userID.
func NewConciergeBookingStore(deps Deps, userID string) *ConciergeBookingStore {
	b := newBase("concierge", userID, deps)
	return &ConciergeBookingStore{
		base: b,
		items: collection.New[models.ConciergeBooking](
			b.deps.Adapter,
			storage.Key(b.deps.KeyPrefix, storage.DomainConciergeBookings, userID),
			collection.WithValidator(validateAll[models.ConciergeBooking]),
		),
	}
}

func (s *ConciergeBookingStore) Load(ctx context.Context) { s.items.Load(ctx) }
func (s *ConciergeBookingStore) IsLoading() bool { return s.items.IsLoading() }
func (s *ConciergeBookingStore) Err() string { return s.items.Err() }
func (s *ConciergeBookingStore) ClearError() { s.items.ClearError() }

func (s *ConciergeBookingStore) BookService(ctx context.Context, svc models.ConciergeService, req models.ConciergeRequest) (*models.ConciergeBooking, error) {
	s.wait()

	if svc.Type == "" {
		return nil, s.finish(ctx, "book", invalid("service type is empty"))
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, s.finish(ctx, "book", invalid("date is empty"))
	}
	if _, err := models.ParseDateTime(req.Date, req.Time, s.deps.Location); err != nil {
		return nil, s.finish(ctx, "book", invalid("%v", err))
	}

	location := req.Location
	if location == "" {
		location = svc.Location
	}

	booking := models.ConciergeBooking{
		ID:              codes.NewID(),
		ServiceType:     svc.Type,
		ServiceTitle:    svc.Title,
		Date:            strings.TrimSpace(req.Date),
		Time:            strings.TrimSpace(req.Time),
		Duration:        svc.Duration,
		Location:        location,
		Price:           svc.Price,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		Preferences:     req.Preferences,
		Status:          models.BookingConfirmed,
		BookedAt:        s.now(),
	}

	err := s.items.Update(ctx, func(prev []models.ConciergeBooking) ([]models.ConciergeBooking, error) {
		return append(prev, booking), nil
	})
	if err != nil {
		return nil, s.finish(ctx, "book", err)
	}
	return &booking, s.finish(ctx, "book", nil)
}

// CancelBooking marks the booking cancelled. Cancelling twice is a no-op.
func (s *ConciergeBookingStore) CancelBooking(ctx context.Context, id string) error {
	s.wait()
	return s.finish(ctx, "cancel", cancelBooking(ctx, s.items, id,
		func(b *models.ConciergeBooking) (string, *models.BookingStatus) { return b.ID, &b.Status }))
}

// Active lists confirmed and pending bookings.
func (s *ConciergeBookingStore) Active() []models.ConciergeBooking {
	return s.items.Filter(func(b models.ConciergeBooking) bool { return b.Status.Active() })
}

func (s *ConciergeBookingStore) Cancelled() []models.ConciergeBooking {
	return s.items.Filter(func(b models.ConciergeBooking) bool { return b.Status == models.BookingCancelled })
}

func (s *ConciergeBookingStore) ByServiceType(serviceType string) []models.ConciergeBooking {
	return s.items.Filter(func(b models.ConciergeBooking) bool { return b.ServiceType == serviceType })
}

func (s *ConciergeBookingStore) Get(id string) (*models.ConciergeBooking, bool) {
	b, ok := s.items.Find(func(b models.ConciergeBooking) bool { return b.ID == id })
	if !ok {
		return nil, false
	}
	return &b, true
}

func (s *ConciergeBookingStore) All() []models.ConciergeBooking {
	return s.items.Items()
}

func (s *ConciergeBookingStore) reset() { s.items.Reset() }
