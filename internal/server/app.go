// Package server wires the fintrack server together: configuration, the
// PostgreSQL pool and migrations, the services, and the HTTP and gRPC
// front ends. Both servers stop gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/fintrack/internal/buildinfo"
	"github.com/dmitrijs2005/fintrack/internal/logging"
	"github.com/dmitrijs2005/fintrack/internal/server/auth"
	"github.com/dmitrijs2005/fintrack/internal/server/config"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fintrack/internal/server/rest"
	"github.com/dmitrijs2005/fintrack/internal/server/services"

	gs "github.com/dmitrijs2005/fintrack/internal/server/grpc"
)

// openDB is swapped in tests.
var openDB = repomanager.Open

type App struct {
	config           *config.Config
	logger           logging.Logger
	db               *sql.DB
	issuer           *auth.TokenIssuer
	authService      *services.AuthService
	ledgerService    *services.LedgerService
	statementService *services.StatementService
}

// NewApp connects to the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return newApp(c, logger, db, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	issuer := auth.NewTokenIssuer(c.TokenSecret(), c.TokenTTL)
	hasher := auth.NewBcryptHasher(c.BcryptCost)

	as := services.NewAuthService(db, rm, hasher, issuer, c.AllowPasswordReset, logger.With("module", "auth"))
	ls := services.NewLedgerService(db, rm)
	ss := services.NewStatementService(ls, c)

	return &App{
		config:           c,
		logger:           logger,
		db:               db,
		issuer:           issuer,
		authService:      as,
		ledgerService:    ls,
		statementService: ss,
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.authService, app.ledgerService, app.statementService, app.issuer)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	e := rest.NewServer(rest.Deps{
		Auth:        app.authService,
		Ledger:      app.ledgerService,
		Statements:  app.statementService,
		Verifier:    app.issuer,
		Logger:      app.logger.With("module", "http_server"),
		AuthLimiter: rest.NewRateLimiter(ctx, rest.DefaultAuthRate, rest.DefaultAuthBurst),
	})

	if err := rest.Serve(ctx, e, app.config.HTTPAddr, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves HTTP and gRPC until a signal arrives or either server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "version", buildinfo.Version, "commit", buildinfo.Commit)

	if app.config.UsesDefaultSecret() {
		app.logger.Warn(ctx, "using the built-in token secret; set JWT_SECRET or -s in production")
	}
	if app.config.AllowPasswordReset {
		app.logger.Warn(ctx, "unauthenticated password reset is enabled")
	}
	if !app.config.StatementsEnabled() {
		app.logger.Info(ctx, "statement export disabled: no S3 bucket configured")
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err)
	}
	app.logger.Info(context.Background(), "Stopped")
}
