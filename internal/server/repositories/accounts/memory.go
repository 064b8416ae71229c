package accounts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/staybook/internal/common"
	"github.com/dmitrijs2005/staybook/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It backs the "memory"
// storage mode and the service tests.
type MemoryRepository struct {
	mu      sync.Mutex
	byID    map[string]*models.Account
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(account.Email)
	if _, ok := r.byEmail[key]; ok {
		return nil, common.ErrorAlreadyExists
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.Role == "" {
		account.Role = models.RoleGuest
	}
	ts := r.now().UTC()
	account.CreatedAt, account.UpdatedAt = ts, ts

	stored := *account
	r.byID[stored.ID] = &stored
	r.byEmail[key] = stored.ID

	return account, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := *r.byID[id]
	return &a, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := *stored
	return &a, nil
}
