package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/staybook/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims is the payload of an access token. AccountID duplicates the
// registered subject under the "id" key the frontend reads.
type AccessClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// RefreshClaims is the payload of a refresh token. RegisteredClaims.ID (jti)
// is random, so two refresh tokens are never equal even when issued for the
// same account in the same second.
type RefreshClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
}

// TokenConfig configures a TokenIssuer.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenIssuer signs and verifies access and refresh tokens with two
// independent HS256 secrets.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token secrets must not be empty")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           now,
	}, nil
}

// registered builds the common claims. jwt.NumericDate keeps second
// precision, so the issue time is truncated first to guarantee exp-iat == ttl.
func (i *TokenIssuer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	issuedAt := i.now().Truncate(time.Second)
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}
}

// IssueAccess returns a signed access token for the account.
func (i *TokenIssuer) IssueAccess(accountID, email, role string) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: i.registered(accountID, i.accessTTL),
		AccountID:        accountID,
		Email:            email,
		Role:             role,
	}
	return sign(claims, i.accessSecret)
}

// IssueRefresh returns a signed refresh token for the account.
func (i *TokenIssuer) IssueRefresh(accountID string) (string, error) {
	rc := i.registered(accountID, i.refreshTTL)
	rc.ID = uuid.NewString()
	claims := RefreshClaims{
		RegisteredClaims: rc,
		AccountID:        accountID,
	}
	return sign(claims, i.refreshSecret)
}

// VerifyAccess validates signature and expiry of an access token.
// It returns common.ErrTokenExpired or common.ErrInvalidToken on failure.
func (i *TokenIssuer) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.parse(token, claims, i.accessSecret, false); err != nil {
		return nil, err
	}
	if claims.AccountID == "" || claims.AccountID != claims.Subject {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefresh validates signature and expiry of a refresh token.
// It returns common.ErrTokenExpired or common.ErrInvalidToken on failure.
func (i *TokenIssuer) VerifyRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(token, claims, i.refreshSecret, false); err != nil {
		return nil, err
	}
	if claims.AccountID == "" || claims.AccountID != claims.Subject {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// DecodeRefresh checks the signature of a refresh token but not its expiry.
// Logout uses it so an expired token can still be removed from the store.
func (i *TokenIssuer) DecodeRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(token, claims, i.refreshSecret, true); err != nil {
		return nil, err
	}
	if claims.AccountID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (i *TokenIssuer) parse(token string, claims jwt.Claims, secret []byte, skipExpiry bool) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if skipExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return common.ErrInvalidToken
	}
	return nil
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
