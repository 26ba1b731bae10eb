package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophconcierge/internal/client/codes"
	"github.com/dmitrijs2005/gophconcierge/internal/client/config"
	"github.com/dmitrijs2005/gophconcierge/internal/client/database"
	"github.com/dmitrijs2005/gophconcierge/internal/client/identity"
	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
	"github.com/dmitrijs2005/gophconcierge/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDriver = database.DriverMemory
	c.OperationDelay = 0
	c.LogLevel = "error"
	c.TokenSecret = testSecret
	c.ExportDir = t.TempDir()
	return c
}

type testApp struct {
	*App
	out *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close(context.Background()) })

	var out bytes.Buffer
	app.out = &out

	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&out, a...) }
	t.Cleanup(func() { printlnFn = origPrint })

	stubTerminal(t, false, "", nil)
	return &testApp{App: app, out: &out}
}

// run feeds lines to the REPL and returns what it printed.
func (a *testApp) run(lines ...string) string {
	a.out.Reset()
	a.reader = rdr(strings.Join(lines, "\n") + "\n")
	runREPL(context.Background(), a.App, a.status, a.reader)
	return a.out.String()
}

func TestNewApp_Errors(t *testing.T) {
	c := testConfig(t)
	c.RedeemPolicy = "sometimes"
	_, err := NewApp(context.Background(), c)
	require.ErrorIs(t, err, services.ErrInvalidInput)

	c = testConfig(t)
	c.DatabaseDriver = "oracle"
	_, err = NewApp(context.Background(), c)
	require.ErrorIs(t, err, database.ErrUnknownDriver)
}

func TestNewApp_SQLite(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDriver = database.DriverSQLite
	c.DatabaseDSN = filepath.Join(t.TempDir(), "concierge.db")

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	app.Close(context.Background())
}

func TestREPL_LoggedOut(t *testing.T) {
	a := newTestApp(t)

	out := a.run("help", "events", "bogus", "exit", "help")

	assert.Contains(t, out, helpLoggedOut)
	assert.Contains(t, out, errNotLoggedIn.Error())
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Contains(t, out, "Bye!")
	assert.Equal(t, 1, strings.Count(out, helpLoggedOut))
	assert.Equal(t, "", a.status())
}

func TestLogin_TokenInlineAndPrompted(t *testing.T) {
	a := newTestApp(t)
	token, err := identity.IssueToken("alice", []byte(testSecret), time.Hour)
	require.NoError(t, err)

	out := a.run("login " + token)
	assert.Contains(t, out, "Signed in as alice")
	assert.Equal(t, "(alice)", a.status())

	a.run("logout")
	assert.False(t, a.isLoggedIn())

	out = a.run("login", token, "help")
	assert.Contains(t, out, "Signed in as alice")
	assert.Contains(t, out, helpLoggedIn)
}

func TestLogin_RejectsBadToken(t *testing.T) {
	a := newTestApp(t)
	forged, err := identity.IssueToken("mallory", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	out := a.run("login "+forged, "dev-login")

	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "usage: dev-login <user>")
	assert.False(t, a.isLoggedIn())
}

func TestEvents_BookListCancel(t *testing.T) {
	a := newTestApp(t)

	out := a.run("dev-login alice", "events book ev-spring-preview 2", "window seat", "events list")
	assert.Contains(t, out, "Booked Spring Collection Preview for 2 guest(s)")
	assert.Contains(t, out, "Upcoming:")

	b, ok := a.session.Events.GetBooking("ev-spring-preview")
	require.True(t, ok)
	assert.Equal(t, "window seat", b.SpecialRequests)

	out = a.run("events book ev-spring-preview", "")
	assert.Contains(t, out, "Error: "+services.ErrAlreadyBooked.Error())

	out = a.run("events cancel "+b.ID, "events book nope", "events book ev-wine-tasting x")
	assert.Contains(t, out, "Booking "+b.ID+" cancelled")
	assert.Contains(t, out, `unknown event "nope"`)
	assert.Contains(t, out, "guests:")
	assert.False(t, a.session.Events.IsBooked("ev-spring-preview"))
}

func TestConcierge_BookWithPreferences(t *testing.T) {
	a := newTestApp(t)

	out := a.run("dev-login alice",
		"concierge book personal-shopping 2030-05-01 10:00",
		"", "Bring coffee", "Anna", "500", "shoes, bags",
		"concierge list personal-shopping")
	assert.Contains(t, out, "Booked Personal Shopping on 2030-05-01 at Concierge Desk")

	all := a.session.Concierge.All()
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Preferences)
	assert.Equal(t, []string{"shoes", "bags"}, all[0].Preferences.Categories)
	assert.Equal(t, "Bring coffee", all[0].SpecialRequests)

	out = a.run("concierge book valet 2030-13-01", "", "", "concierge cancel "+all[0].ID)
	assert.Contains(t, out, "Error: "+services.ErrInvalidInput.Error())
	assert.Contains(t, out, "cancelled")
	assert.Len(t, a.session.Concierge.Cancelled(), 1)
}

func TestFavorites_Flow(t *testing.T) {
	a := newTestApp(t)

	out := a.run("dev-login alice",
		"favorites add st-chanel",
		"favorites notes chanel", "Ask for Marie", "",
		"favorites notify chanel offers off",
		"favorites list",
		"favorites add st-chanel")
	assert.Contains(t, out, "Chanel added to favorites")
	assert.Contains(t, out, "Ask for Marie")
	assert.Contains(t, out, "Categories: Fashion")
	assert.Contains(t, out, "Error: "+services.ErrAlreadyFavorite.Error())

	fav, ok := a.session.Favorites.Get("st-chanel")
	require.True(t, ok)
	assert.Equal(t, "Ask for Marie", fav.Notes)
	assert.False(t, fav.NotifyOfOffers)
	assert.True(t, fav.NotifyOfEvents)

	out = a.run("favorites remove chanel", "favorites list", "favorites notes chanel")
	assert.Contains(t, out, "No favorites")
	assert.Contains(t, out, "Error: "+services.ErrNotFound.Error())
}

func TestOffers_ClaimShowRedeem(t *testing.T) {
	a := newTestApp(t)

	out := a.run("dev-login alice", "offers claim of-aesop-15")
	assert.Contains(t, out, "Claimed 15% off skincare")

	claims := a.session.Offers.All()
	require.Len(t, claims, 1)
	c := claims[0]
	png := filepath.Join(t.TempDir(), "qr.png")

	out = a.run(
		"offers show "+strings.ToLower(c.RedemptionCode),
		"offers qr "+c.ID+" "+png,
		"offers redeem "+c.RedemptionCode+" 12.5", "Garden Court",
		"offers redeem "+c.ID, "",
		"offers list")
	assert.Contains(t, out, "Code:    "+c.RedemptionCode)
	assert.Contains(t, out, "QR data: "+c.QRCodeData)
	assert.Contains(t, out, "Redeemed 15% off skincare")
	assert.Contains(t, out, "Error: "+services.ErrAlreadyRedeemed.Error())
	assert.Contains(t, out, "Total savings: 12.50")

	b, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))

	got, _ := a.session.Offers.Get(c.ID)
	assert.Equal(t, models.OfferRedeemed, got.Status)
	assert.Equal(t, "Garden Court", got.RedeemedLocation)
}

func TestExportImport_RoundTrip(t *testing.T) {
	a := newTestApp(t)

	out := a.run("dev-login alice", "favorites add st-aesop", "export")
	m := regexp.MustCompile(`Exported to (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2)

	a.run("favorites remove st-aesop")
	require.False(t, a.session.Favorites.IsFavorite("st-aesop"))

	out = a.run("import " + m[1])
	assert.Contains(t, out, "Imported snapshot")
	assert.True(t, a.session.Favorites.IsFavorite("st-aesop"))

	out = a.run("dev-login bob", "import "+m[1])
	assert.Contains(t, out, "Error: snapshot belongs to another user")
}

func TestOffers_VerifyPayload(t *testing.T) {
	a := newTestApp(t)

	a.run("dev-login alice", "offers claim of-aesop-15")
	claims := a.session.Offers.All()
	require.Len(t, claims, 1)
	c := claims[0]

	out := a.run("offers verify " + c.QRCodeData)
	assert.Contains(t, out, c.RedemptionCode+": 15% off skincare at")
	assert.Contains(t, out, string(models.OfferActive))

	forged := strings.Replace(c.QRCodeData, c.OfferID, "of-other", 1)
	out = a.run(
		"offers verify "+forged,
		"offers verify {not json",
		`offers verify {"offerId":"x","redemptionCode":"AAA-BBBB-CCCC"}`,
		"offers verify")
	assert.Contains(t, out, "Error: "+errPayloadMismatch.Error())
	assert.Contains(t, out, "Error: "+codes.ErrInvalidPayload.Error())
	assert.Contains(t, out, "Error: "+services.ErrNotFound.Error())
	assert.Contains(t, out, "Error: usage: offers verify <qr payload>")
}

func TestWipe_ConfirmThenDeletes(t *testing.T) {
	a := newTestApp(t)

	a.run("dev-login alice", "favorites add st-aesop", "offers claim of-aesop-15")
	require.True(t, a.session.Favorites.IsFavorite("st-aesop"))

	out := a.run("wipe", "bob")
	assert.Contains(t, out, "Wipe cancelled")
	assert.True(t, a.session.Favorites.IsFavorite("st-aesop"))

	out = a.run("wipe", "alice")
	assert.Contains(t, out, "Deleted saved data for alice")
	assert.Empty(t, a.session.Favorites.All())
	assert.Empty(t, a.session.Offers.All())
	assert.Empty(t, a.session.Err())

	// Nothing comes back on the next sign-in.
	a.run("logout", "dev-login alice")
	assert.Empty(t, a.session.Favorites.All())
}

func TestStatusAndStats(t *testing.T) {
	a := newTestApp(t)

	out := a.run("dev-login alice", "favorites add st-aesop", "status", "stats")
	assert.Contains(t, out, "User: alice")
	assert.Contains(t, out, "Favorites: 1")
	assert.Contains(t, out, "gophconcierge_operations_total")
}

func TestCatalog(t *testing.T) {
	a := newTestApp(t)

	out := a.run("catalog stores", "catalog nope")
	assert.Contains(t, out, "st-chanel")
	assert.NotContains(t, out, "ev-spring-preview")
	assert.Contains(t, out, "usage: catalog")

	out = a.run("catalog")
	for _, s := range []string{"Events:", "Concierge services:", "Stores:", "Offers:"} {
		assert.Contains(t, out, s)
	}
}
