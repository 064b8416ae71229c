// Package httpapi is the JSON-over-HTTP adapter of the auth service.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/staybook/internal/logging"
	"github.com/dmitrijs2005/staybook/internal/server/models"
	"github.com/dmitrijs2005/staybook/internal/server/services"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 10 << 20

const shutdownTimeout = 5 * time.Second

// AuthService is implemented by *services.UserService.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*models.Account, error)
	Profile(ctx context.Context, principal *models.Account) (*models.AccountView, error)
}

// Server routes HTTP requests to the auth service.
type Server struct {
	auth        AuthService
	logger      logging.Logger
	environment string
	development bool
	now         func() time.Time
}

// New builds the HTTP adapter. environment is reported on /health; error
// details go into 500 bodies only when development is set.
func New(auth AuthService, logger logging.Logger, environment string, development bool) *Server {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Server{
		auth:        auth,
		logger:      logger.With("module", "http_server"),
		environment: environment,
		development: development,
		now:         time.Now,
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	auth := http.NewServeMux()
	auth.HandleFunc("POST /register", s.handleRegister)
	auth.HandleFunc("POST /login", s.handleLogin)
	auth.HandleFunc("POST /refresh", s.handleRefresh)
	auth.HandleFunc("POST /logout", s.handleLogout)
	auth.Handle("GET /profile", s.requireAuth(http.HandlerFunc(s.handleProfile)))
	auth.HandleFunc("/", s.handleNotFound)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", s.handleHealth)
	root.Handle("/api/v1/auth/", http.StripPrefix("/api/v1/auth", auth))
	root.HandleFunc("/", s.handleNotFound)

	return s.withRequestID(s.withLogging(s.withRecover(withBodyLimit(root))))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
