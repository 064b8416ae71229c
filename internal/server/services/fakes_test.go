package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/staybook/internal/server/auth"
	"github.com/dmitrijs2005/staybook/internal/server/models"
	"github.com/dmitrijs2005/staybook/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/staybook/internal/server/repositories/refreshtokens"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// accountsStub delegates to Repository unless a function field is set.
type accountsStub struct {
	accounts.Repository
	create     func(ctx context.Context, a *models.Account) (*models.Account, error)
	getByEmail func(ctx context.Context, email string) (*models.Account, error)
	getByID    func(ctx context.Context, id string) (*models.Account, error)
}

func (s *accountsStub) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if s.create != nil {
		return s.create(ctx, a)
	}
	return s.Repository.Create(ctx, a)
}

func (s *accountsStub) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if s.getByEmail != nil {
		return s.getByEmail(ctx, email)
	}
	return s.Repository.GetByEmail(ctx, email)
}

func (s *accountsStub) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return s.Repository.GetByID(ctx, id)
}

// sessionsStub delegates to Repository unless a function field is set.
type sessionsStub struct {
	refreshtokens.Repository
	add      func(ctx context.Context, accountID, token string) error
	remove   func(ctx context.Context, accountID, token string) error
	contains func(ctx context.Context, accountID, token string) (bool, error)
	rotate   func(ctx context.Context, accountID, oldToken, newToken string) error
}

func (s *sessionsStub) Add(ctx context.Context, accountID, token string) error {
	if s.add != nil {
		return s.add(ctx, accountID, token)
	}
	return s.Repository.Add(ctx, accountID, token)
}

func (s *sessionsStub) Remove(ctx context.Context, accountID, token string) error {
	if s.remove != nil {
		return s.remove(ctx, accountID, token)
	}
	return s.Repository.Remove(ctx, accountID, token)
}

func (s *sessionsStub) Contains(ctx context.Context, accountID, token string) (bool, error) {
	if s.contains != nil {
		return s.contains(ctx, accountID, token)
	}
	return s.Repository.Contains(ctx, accountID, token)
}

func (s *sessionsStub) Rotate(ctx context.Context, accountID, oldToken, newToken string) error {
	if s.rotate != nil {
		return s.rotate(ctx, accountID, oldToken, newToken)
	}
	return s.Repository.Rotate(ctx, accountID, oldToken, newToken)
}

// countingHasher records how many hash comparisons were made.
type countingHasher struct {
	auth.PasswordHasher
	verifies atomic.Int32
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.verifies.Add(1)
	return h.PasswordHasher.Verify(password, hash)
}

type fixture struct {
	svc      *UserService
	clock    *testClock
	accounts *accountsStub
	sessions *sessionsStub
	hasher   *countingHasher
	issuer   *auth.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &testClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	issuer, err := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     7 * 24 * time.Hour,
		RefreshTTL:    30 * 24 * time.Hour,
		Now:           clock.Now,
	})
	require.NoError(t, err)

	f := &fixture{
		clock:    clock,
		accounts: &accountsStub{Repository: accounts.NewMemoryRepository()},
		sessions: &sessionsStub{Repository: refreshtokens.NewMemoryRepository()},
		hasher:   &countingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost)},
		issuer:   issuer,
	}
	f.svc = NewUserService(f.accounts, f.sessions, f.issuer, f.hasher, nil)
	return f
}

func aliceInput() RegisterInput {
	return RegisterInput{
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "alice@example.com",
		Password:  "secret1",
	}
}
