package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophconcierge/internal/client/codes"
	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
	"github.com/dmitrijs2005/gophconcierge/internal/client/services"
)

// qrSize is the edge length in pixels of exported QR images.
const qrSize = 256

var errPayloadMismatch = errors.New("payload does not match the claim")

// Offers handles "offers [list|claim|redeem|show|qr|verify]". Claims can be
// referenced by id or by redemption code.
func (a *App) Offers(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		return a.listOffers()
	}

	o := a.session.Offers
	switch args[0] {
	case "claim":
		if len(args) != 2 {
			return usage("offers claim <offerId>")
		}
		offer, ok := a.catalog.Offer(args[1])
		if !ok {
			return fmt.Errorf("unknown offer %q", args[1])
		}
		c, err := o.ClaimOffer(ctx, offer)
		if err != nil {
			return err
		}
		a.printf("Claimed %s, code %s, expires %s\n", c.OfferTitle, c.RedemptionCode, c.ExpiresAt.Format(models.DateLayout))
		return nil

	case "redeem":
		if len(args) < 2 || len(args) > 3 {
			return usage("offers redeem <claimId|code> [savings]")
		}
		c, err := a.findClaim(args[1])
		if err != nil {
			return err
		}
		var opts []services.RedeemOption
		if len(args) == 3 {
			amount, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("savings: %w", err)
			}
			opts = append(opts, services.WithSavings(amount))
		}
		location, err := GetSimpleText(a.reader, "Redeemed at (optional)", a.out)
		if err != nil {
			return err
		}
		if err := o.RedeemOffer(ctx, c.ID, location, opts...); err != nil {
			return err
		}
		a.printf("Redeemed %s\n", c.OfferTitle)
		return nil

	case "show":
		if len(args) != 2 {
			return usage("offers show <claimId|code>")
		}
		c, err := a.findClaim(args[1])
		if err != nil {
			return err
		}
		return a.showClaim(*c)

	case "qr":
		if len(args) != 3 {
			return usage("offers qr <claimId|code> <file.png>")
		}
		c, err := a.findClaim(args[1])
		if err != nil {
			return err
		}
		png, err := codes.RenderQR(c.QRCodeData, qrSize)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[2], png, 0o600); err != nil {
			return err
		}
		a.printf("QR code written to %s\n", args[2])
		return nil

	case "verify":
		if len(args) < 2 {
			return usage("offers verify <qr payload>")
		}
		return a.verifyPayload(strings.Join(args[1:], " "))

	default:
		return usage("offers [list|claim|redeem|show|qr|verify]")
	}
}

// verifyPayload checks scanned QR data against the user's claims the way a
// point of sale would.
func (a *App) verifyPayload(data string) error {
	p, err := codes.DecodePayload(data)
	if err != nil {
		return err
	}
	c, ok := a.session.Offers.FindByCode(p.RedemptionCode)
	if !ok {
		return services.ErrNotFound
	}
	if c.OfferID != p.OfferID || c.StoreSlug != p.StoreSlug {
		return errPayloadMismatch
	}
	a.printf("%s: %s at %s, %s\n", c.RedemptionCode, c.OfferTitle, c.StoreName, c.EffectiveStatus(a.now()))
	return nil
}

func (a *App) findClaim(ref string) (*models.ClaimedOffer, error) {
	o := a.session.Offers
	if c, ok := o.Get(ref); ok {
		return c, nil
	}
	if c, ok := o.FindByCode(ref); ok {
		return c, nil
	}
	return nil, services.ErrNotFound
}

func (a *App) showClaim(c models.ClaimedOffer) error {
	now := a.now()
	a.printf("%s at %s\n", c.OfferTitle, c.StoreName)
	a.printf("Code:    %s\n", c.RedemptionCode)
	a.printf("Status:  %s\n", c.EffectiveStatus(now))
	a.printf("Expires: %s\n", c.ExpiresAt.Format(models.DateLayout+" "+models.TimeLayout))
	if c.Terms != "" {
		a.printf("Terms:   %s\n", c.Terms)
	}
	if c.RedeemedAt != nil {
		a.printf("Redeemed %s %s\n", c.RedeemedAt.Format(models.DateLayout), c.RedeemedLocation)
	}

	if !isTerminal(int(os.Stdout.Fd())) {
		a.printf("QR data: %s\n", c.QRCodeData)
		return nil
	}
	qr, err := codes.RenderQRTerminal(c.QRCodeData)
	if err != nil {
		return err
	}
	a.printf("%s", qr)
	return nil
}

func (a *App) listOffers() error {
	now := a.now()
	o := a.session.Offers
	items := o.All()
	if len(items) == 0 {
		a.printf("No claimed offers\n")
		return nil
	}
	for _, c := range items {
		a.printf("  %s  %s  %s  %s\n", c.ID, c.RedemptionCode, c.OfferTitle, o.EffectiveStatus(c, now))
	}
	a.printf("Total savings: %.2f\n", o.TotalSavings())
	return nil
}
