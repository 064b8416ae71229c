package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/staybook/internal/common"
	"github.com/dmitrijs2005/staybook/internal/server/models"
	"github.com/dmitrijs2005/staybook/internal/server/services"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authData struct {
	User   models.AccountView `json:"user"`
	Tokens services.TokenPair `json:"tokens"`
}

type tokensData struct {
	Tokens services.TokenPair `json:"tokens"`
}

type userData struct {
	User *models.AccountView `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.auth.Register(r.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			writeFail(w, http.StatusBadRequest, ve.Message, ve.Messages...)
		case errors.Is(err, common.ErrorAlreadyExists):
			writeFail(w, http.StatusBadRequest, "User with this email already exists")
		default:
			s.serverError(w, r, "Server error during registration", err)
		}
		return
	}

	writeOK(w, http.StatusCreated, "User registered successfully", authData{
		User:   res.Account.View(),
		Tokens: res.Tokens,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			writeFail(w, http.StatusBadRequest, ve.Message, ve.Messages...)
		case errors.Is(err, common.ErrInvalidCredentials):
			writeFail(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			s.serverError(w, r, "Server error during login", err)
		}
		return
	}

	writeOK(w, http.StatusOK, "Login successful", authData{
		User:   res.Account.View(),
		Tokens: res.Tokens,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !s.decode(w, r, &req) {
		return
	}

	pair, err := s.auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrMissingToken):
			writeFail(w, http.StatusUnauthorized, "Refresh token is required")
		case errors.Is(err, common.ErrRefreshTokenExpired):
			writeFail(w, http.StatusUnauthorized, "Refresh token expired")
		case errors.Is(err, common.ErrInvalidToken):
			writeFail(w, http.StatusUnauthorized, "Invalid refresh token")
		default:
			s.serverError(w, r, "Server error during token refresh", err)
		}
		return
	}

	writeOK(w, http.StatusOK, "Tokens refreshed successfully", tokensData{Tokens: *pair})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, common.ErrMissingToken) {
			writeFail(w, http.StatusBadRequest, "Refresh token is required")
			return
		}
		s.serverError(w, r, "Server error during logout", err)
		return
	}

	writeOK(w, http.StatusOK, "Logged out successfully", nil)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())

	view, err := s.auth.Profile(r.Context(), account)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthenticated) {
			writeFail(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		s.serverError(w, r, "Server error while fetching profile", err)
		return
	}

	writeOK(w, http.StatusOK, "", userData{User: view})
}

type healthResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Success:     true,
		Message:     "Server is running",
		Timestamp:   s.now().UTC().Format(time.RFC3339Nano),
		Environment: s.environment,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeFail(w, http.StatusNotFound, fmt.Sprintf("Route %s not found", r.RequestURI))
}

// decode parses the body and answers 400 or 413 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := parseJSON(r, dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errBodyTooLarge):
		writeFail(w, http.StatusRequestEntityTooLarge, "Request body too large")
	default:
		writeFail(w, http.StatusBadRequest, "Invalid request body")
	}
	return false
}

// serverError logs err and answers 500. The detail is exposed in development.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	s.logger.Error(r.Context(), message, "error", err, "request_id", RequestIDFromContext(r.Context()))
	body := envelope{Success: false, Message: message}
	if s.development {
		body.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}
