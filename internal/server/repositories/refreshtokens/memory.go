package refreshtokens

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository keeps refresh tokens in process memory. One mutex guards
// all collections, so every method is atomic with respect to the others.
type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string][]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string][]string)}
}

func (r *MemoryRepository) Add(_ context.Context, accountID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[accountID] = append(r.tokens[accountID], token)
	return nil
}

func (r *MemoryRepository) Remove(_ context.Context, accountID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(accountID, token)
	return nil
}

func (r *MemoryRepository) Contains(_ context.Context, accountID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.tokens[accountID], token), nil
}

func (r *MemoryRepository) Rotate(_ context.Context, accountID, oldToken, newToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(accountID, oldToken)
	r.tokens[accountID] = append(r.tokens[accountID], newToken)
	return nil
}

func (r *MemoryRepository) List(_ context.Context, accountID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.tokens[accountID]), nil
}

func (r *MemoryRepository) removeLocked(accountID, token string) {
	list := slices.DeleteFunc(r.tokens[accountID], func(t string) bool { return t == token })
	if len(list) == 0 {
		delete(r.tokens, accountID)
		return
	}
	r.tokens[accountID] = list
}
