package cli

import (
	"context"

	"github.com/dmitrijs2005/gophconcierge/internal/client/identity"
)

// getSecret is an indirection used to facilitate testing.
var getSecret = GetSecret

// Login verifies a token issued by the auth service and opens the session of
// its user. The token is read from the terminal when not given inline.
func (a *App) Login(ctx context.Context, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		t, err := getSecret(a.reader, "Enter token", a.out)
		if err != nil {
			return err
		}
		token = t
	}

	id, err := a.verifier.Verify(token)
	if err != nil {
		a.log.Warn(ctx, "login rejected", "err", err)
		return err
	}
	return a.signIn(ctx, id)
}

// DevLogin mints a token for user with the configured secret and logs in
// with it.
func (a *App) DevLogin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("dev-login <user>")
	}
	token, err := identity.IssueToken(args[0], []byte(a.config.TokenSecret), devTokenTTL)
	if err != nil {
		return err
	}
	return a.Login(ctx, []string{token})
}

func (a *App) signIn(ctx context.Context, id identity.Identity) error {
	s, err := a.manager.SignIn(ctx, id)
	if err != nil {
		return err
	}
	a.session = s
	a.printf("Signed in as %s\n", s.UserID)
	if msg := s.Err(); msg != "" {
		a.printf("Warning: %s\n", msg)
	}
	return nil
}

// Logout drops the session from memory. Stored data is kept.
func (a *App) Logout(ctx context.Context) error {
	a.manager.SignOut(ctx)
	a.session = nil
	a.printf("Signed out\n")
	return nil
}

// Status reports what each store holds and any advisory errors, which
// are cleared once shown.
func (a *App) Status(ctx context.Context) error {
	s := a.session
	now := a.now()
	a.printf("User: %s\n", s.UserID)
	a.printf("Event bookings: %d upcoming, %d past\n", len(s.Events.Upcoming(now)), len(s.Events.Past(now)))
	a.printf("Concierge bookings: %d active\n", len(s.Concierge.Active()))
	a.printf("Favorites: %d\n", len(s.Favorites.All()))
	a.printf("Offers: %d active, %d redeemed, %.2f saved\n",
		len(s.Offers.ActiveOffers(now)), len(s.Offers.RedeemedOffers()), s.Offers.TotalSavings())
	if msg := s.Err(); msg != "" {
		a.printf("Errors: %s\n", msg)
		s.ClearErrors()
	}
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	return a.metrics.WriteText(a.out)
}
