package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/staybook/internal/common"
	"github.com/dmitrijs2005/staybook/internal/server/models"
)

type ctxKey string

const (
	ctxAccountKey   ctxKey = "account"
	ctxRequestIDKey ctxKey = "request_id"
)

const maxRequestIDLength = 64

// AccountFromContext returns the principal attached by requireAuth.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	a, ok := ctx.Value(ctxAccountKey).(*models.Account)
	return a, ok && a != nil
}

// RequestIDFromContext returns the id attached by withRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestIDKey).(string)
	return id
}

// requireAuth resolves "Authorization: Bearer <token>" to an account.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			writeFail(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		account, err := s.auth.Authenticate(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, common.ErrTokenExpired):
			writeFail(w, http.StatusUnauthorized, "Token expired")
			return
		case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrMissingToken):
			writeFail(w, http.StatusUnauthorized, "Invalid token")
			return
		default:
			s.serverError(w, r, "Server error during authentication", err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxAccountKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) {
		return "", false
	}
	return parts[1], true
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		if id == "" || len(id) > maxRequestIDLength {
			var err error
			if id, err = common.MakeRandHexString(8); err != nil {
				id = "-"
			}
		}
		w.Header().Set(common.RequestIDHeaderName, id)
		ctx := context.WithValue(r.Context(), ctxRequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", s.now().Sub(start).String(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				s.logger.Error(r.Context(), "panic in handler", "panic", p, "request_id", RequestIDFromContext(r.Context()))
				writeFail(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func withBodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}
