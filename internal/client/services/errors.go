package services

import (
	"errors"

	"github.com/dmitrijs2005/gophconcierge/internal/metrics"
)

// Business outcomes. These are expected results, not faults, and are never
// logged above Debug.
var (
	ErrAlreadyBooked    = errors.New("already booked")
	ErrAlreadyClaimed   = errors.New("offer already claimed")
	ErrAlreadyFavorite  = errors.New("store already in favorites")
	ErrAlreadyRedeemed  = errors.New("offer already redeemed")
	ErrOfferExpired     = errors.New("offer expired")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// IsConflict reports whether err is one of the business conflicts.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyBooked) ||
		errors.Is(err, ErrAlreadyClaimed) ||
		errors.Is(err, ErrAlreadyFavorite) ||
		errors.Is(err, ErrAlreadyRedeemed) ||
		errors.Is(err, ErrOfferExpired)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case IsConflict(err):
		return metrics.ResultConflict
	case errors.Is(err, ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, ErrInvalidInput):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
