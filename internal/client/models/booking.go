package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BookingStatus is shared by event and concierge bookings.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrMissingID     = errors.New("record has no id")
	ErrUnknownStatus = errors.New("unknown status")
	ErrBadDate       = errors.New("invalid date")
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingPending, BookingCancelled:
		return true
	}
	return false
}

// Active reports whether the booking still holds its slot.
func (s BookingStatus) Active() bool {
	return s == BookingConfirmed || s == BookingPending
}

type EventBooking struct {
	ID              string        `json:"id"`
	EventID         string        `json:"eventId"`
	EventTitle      string        `json:"eventTitle"`
	EventDate       string        `json:"eventDate"`
	EventTime       string        `json:"eventTime"`
	Location        string        `json:"location"`
	Guests          int           `json:"guests"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
	Status          BookingStatus `json:"status"`
	BookedAt        time.Time     `json:"bookedAt"`
}

func (b EventBooking) Validate() error {
	if b.ID == "" || b.EventID == "" {
		return ErrMissingID
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, b.Status)
	}
	return nil
}

// StartsAt combines EventDate and EventTime in loc. A missing time means
// the start of the day.
func (b EventBooking) StartsAt(loc *time.Location) (time.Time, error) {
	return ParseDateTime(b.EventDate, b.EventTime, loc)
}

// ParseDateTime parses a DateLayout date and an optional TimeLayout time.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if clock == "" {
		t, err := time.ParseInLocation(DateLayout, date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, date)
		}
		return t, nil
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrBadDate, date, clock)
	}
	return t, nil
}

// ConciergePreferences are optional hints for the concierge team.
type ConciergePreferences struct {
	Stylist    string   `json:"stylist,omitempty"`
	Budget     string   `json:"budget,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

type ConciergeBooking struct {
	ID              string                `json:"id"`
	ServiceType     string                `json:"serviceType"`
	ServiceTitle    string                `json:"serviceTitle"`
	Date            string                `json:"date"`
	Time            string                `json:"time"`
	Duration        string                `json:"duration"`
	Location        string                `json:"location"`
	Price           float64               `json:"price"`
	SpecialRequests string                `json:"specialRequests,omitempty"`
	Preferences     *ConciergePreferences `json:"preferences,omitempty"`
	Status          BookingStatus         `json:"status"`
	BookedAt        time.Time             `json:"bookedAt"`
}

func (b ConciergeBooking) Validate() error {
	if b.ID == "" || b.ServiceType == "" {
		return ErrMissingID
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, b.Status)
	}
	return nil
}

// ConciergeRequest carries the user's choices for a concierge booking.
// An empty Location falls back to the service's own location.
type ConciergeRequest struct {
	Date            string
	Time            string
	Location        string
	SpecialRequests string
	Preferences     *ConciergePreferences
}
