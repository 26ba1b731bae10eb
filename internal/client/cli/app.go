package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophconcierge/internal/client/backup"
	"github.com/dmitrijs2005/gophconcierge/internal/client/codes"
	"github.com/dmitrijs2005/gophconcierge/internal/client/config"
	"github.com/dmitrijs2005/gophconcierge/internal/client/database"
	"github.com/dmitrijs2005/gophconcierge/internal/client/identity"
	"github.com/dmitrijs2005/gophconcierge/internal/client/services"
	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
	"github.com/dmitrijs2005/gophconcierge/internal/logging"
	"github.com/dmitrijs2005/gophconcierge/internal/metrics"
)

// devTokenTTL is the lifetime of tokens minted by dev-login.
const devTokenTTL = 24 * time.Hour

type App struct {
	config   *config.Config
	log      logging.Logger
	metrics  *metrics.Recorder
	repos    *database.Repositories
	adapter  *storage.Adapter
	manager  *services.SessionManager
	verifier *identity.Verifier
	exporter *backup.Exporter
	sink     backup.Sink
	catalog  *Catalog

	session *services.Session
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)

	policy, err := services.ParseRedeemPolicy(c.RedeemPolicy)
	if err != nil {
		return nil, err
	}

	repos, err := database.InitDatabase(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	if c.KeyPrefix == "" {
		c.KeyPrefix = services.DefaultKeyPrefix
	}

	rec := metrics.New()
	adapter := storage.NewAdapter(repos.KV, log, storage.WithMetrics(rec))
	deps := services.Deps{
		Adapter:      adapter,
		Logger:       log,
		Metrics:      rec,
		Codes:        codes.NewGenerator(codes.WithAttempts(c.CodeAttempts)),
		Delay:        c.OperationDelay,
		KeyPrefix:    c.KeyPrefix,
		ClaimWindow:  c.ClaimWindow,
		RedeemPolicy: policy,
	}

	return &App{
		config:   c,
		log:      log,
		metrics:  rec,
		repos:    repos,
		adapter:  adapter,
		manager:  services.NewSessionManager(deps),
		verifier: identity.NewVerifier([]byte(c.TokenSecret)),
		exporter: backup.NewExporter(sink, log),
		sink:     sink,
		catalog:  demoCatalog(time.Now()),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
	}, nil
}

func newSink(ctx context.Context, c *config.Config) (backup.Sink, error) {
	if c.ExportS3Bucket == "" {
		return backup.NewFileSink(c.ExportDir), nil
	}
	return backup.NewS3Sink(ctx, backup.S3Config{
		Bucket:   c.ExportS3Bucket,
		Region:   c.ExportS3Region,
		Endpoint: c.ExportS3Endpoint,
		User:     c.ExportS3User,
		Password: c.ExportS3Password,
	})
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	printlnFn("Welcome to GophConcierge (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close(ctx context.Context) {
	a.manager.SignOut(ctx)
	a.session = nil
	if err := a.repos.Close(); err != nil {
		a.log.Warn(ctx, "failed to close database", "err", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) status() string {
	if a.session == nil {
		return ""
	}
	s := a.session.UserID
	if a.session.IsLoading() {
		s += " loading"
	}
	if a.session.Err() != "" {
		s += " !"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
