// Package services contains server-side business logic. UserService handles
// registration, login, refresh-token rotation, logout and profile lookup.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/staybook/internal/common"
	"github.com/dmitrijs2005/staybook/internal/logging"
	"github.com/dmitrijs2005/staybook/internal/server/auth"
	"github.com/dmitrijs2005/staybook/internal/server/models"
	"github.com/dmitrijs2005/staybook/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/staybook/internal/server/repositories/refreshtokens"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Account *models.Account
	Tokens  TokenPair
}

// TokenIssuer is the subset of *auth.TokenIssuer the service relies on.
type TokenIssuer interface {
	IssueAccess(accountID, email, role string) (string, error)
	IssueRefresh(accountID string) (string, error)
	VerifyAccess(token string) (*auth.AccessClaims, error)
	VerifyRefresh(token string) (*auth.RefreshClaims, error)
	DecodeRefresh(token string) (*auth.RefreshClaims, error)
}

type UserService struct {
	accounts accounts.Repository
	sessions refreshtokens.Repository
	tokens   TokenIssuer
	hasher   auth.PasswordHasher
	logger   logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(
	accountRepo accounts.Repository,
	sessions refreshtokens.Repository,
	tokens TokenIssuer,
	hasher auth.PasswordHasher,
	logger logging.Logger,
) *UserService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &UserService{
		accounts: accountRepo,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		logger:   logger.With("module", "users"),
	}
}

// Register validates in, creates the account and opens its first session.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	// The unique index stays the source of truth; this only avoids hashing
	// for an obvious duplicate.
	if _, err := s.accounts.GetByEmail(ctx, in.Email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := s.accounts.Create(ctx, &models.Account{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         models.RoleGuest,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	pair, err := s.openSession(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID)
	return &AuthResult{Account: account, Tokens: *pair}, nil
}

// Login checks credentials and opens a new session. Existing sessions of the
// account stay valid.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, &ValidationError{Message: "Email and password are required"}
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// same bcrypt work as for a real account
			s.hasher.Verify(password, s.dummy())
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.logger.Debug(ctx, "password mismatch", "account_id", account.ID)
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: account, Tokens: *pair}, nil
}

// RefreshToken exchanges a stored refresh token for a new pair. The old
// token is removed from the account's sessions and the new one added.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrMissingToken
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrRefreshTokenExpired
		}
		s.logger.Warn(ctx, "rejected refresh token", "error", err)
		return nil, common.ErrInvalidToken
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	ok, err := s.sessions.Contains(ctx, account.ID, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error checking refresh token: %w", err)
	}
	if !ok {
		s.logger.Warn(ctx, "refresh token not in store", "account_id", account.ID)
		return nil, common.ErrInvalidToken
	}

	pair, err := s.issuePair(account)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Rotate(ctx, account.ID, refreshToken, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("error rotating refresh token: %w", err)
	}
	return pair, nil
}

// Logout revokes refreshToken if it can be resolved. Anything short of a
// missing token is reported as success.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return common.ErrMissingToken
	}

	claims, err := s.tokens.DecodeRefresh(refreshToken)
	if err != nil {
		s.logger.Debug(ctx, "logout with unresolvable token", "error", err)
		return nil
	}
	if err := s.sessions.Remove(ctx, claims.AccountID, refreshToken); err != nil {
		s.logger.Warn(ctx, "logout could not remove refresh token", "account_id", claims.AccountID, "error", err)
	}
	return nil
}

// Authenticate resolves a bearer access token to its account.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.Account, error) {
	if accessToken == "" {
		return nil, common.ErrMissingToken
	}

	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}
	return account, nil
}

// Profile returns the sanitized view of the authenticated account.
func (s *UserService) Profile(_ context.Context, principal *models.Account) (*models.AccountView, error) {
	if principal == nil {
		return nil, common.ErrorUnauthenticated
	}
	v := principal.ProfileView()
	return &v, nil
}

// --- helpers below ---

func (s *UserService) issuePair(account *models.Account) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(account.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *UserService) openSession(ctx context.Context, account *models.Account) (*TokenPair, error) {
	pair, err := s.issuePair(account)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Add(ctx, account.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return pair, nil
}

// dummy returns a hash of random bytes, computed once, that no password can
// match.
func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		pw, err := common.MakeRandHexString(16)
		if err != nil {
			return
		}
		h, err := s.hasher.Hash(pw)
		if err != nil {
			s.logger.Error(context.Background(), "cannot prepare dummy hash", "error", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
