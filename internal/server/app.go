// Package server wires the staybook auth server together: configuration,
// storage, services and the HTTP and gRPC endpoints, with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/staybook/internal/logging"
	"github.com/dmitrijs2005/staybook/internal/server/auth"
	"github.com/dmitrijs2005/staybook/internal/server/config"
	"github.com/dmitrijs2005/staybook/internal/server/httpapi"
	"github.com/dmitrijs2005/staybook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staybook/internal/server/services"

	gs "github.com/dmitrijs2005/staybook/internal/server/grpc"
)

const healthCheckInterval = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	http   *httpapi.Server
	health *gs.HealthServer
}

// openPostgres is a seam for tests.
var openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	return repomanager.OpenPostgres(ctx, dsn)
}

// NewApp validates c and builds every component. Logs go to stdout.
func NewApp(c *config.Config) (*App, error) {
	return newApp(c, os.Stdout)
}

func newApp(c *config.Config, logOut io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewForEnvironment(logOut, c.Environment, c.IsDevelopment())

	var repos repomanager.RepositoryManager
	switch c.Storage {
	case config.StorageMemory:
		repos = repomanager.NewMemoryRepositoryManager()
	default:
		var err error
		repos, err = openPostgres(context.Background(), c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	issuer, err := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  []byte(c.AccessTokenSecret),
		RefreshSecret: []byte(c.RefreshTokenSecret),
		AccessTTL:     c.AccessTokenValidityDuration,
		RefreshTTL:    c.RefreshTokenValidityDuration,
	})
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}

	us := services.NewUserService(repos.Accounts(), repos.RefreshTokens(), issuer, auth.NewBcryptHasher(c.BcryptCost), logger)

	app := &App{
		config: c,
		logger: logger,
		repos:  repos,
		http:   httpapi.New(us, logger, c.Environment, c.IsDevelopment()),
	}
	if c.EndpointAddrGRPC != "" {
		app.health = gs.NewHealthServer(c.EndpointAddrGRPC, logger, repos, healthCheckInterval)
	}
	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails. The store is closed before Run returns.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment, "storage", app.config.Storage)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.http.Run(ctx, app.config.EndpointAddrHTTP); err != nil {
			fail(fmt.Errorf("http server: %w", err))
		}
	}()

	if app.health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.health.Run(ctx); err != nil {
				fail(fmt.Errorf("grpc server: %w", err))
			}
		}()
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(context.Background(), "closing store", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
	return firstErr
}
