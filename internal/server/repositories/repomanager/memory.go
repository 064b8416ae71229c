package repomanager

import (
	"context"

	"github.com/dmitrijs2005/staybook/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/staybook/internal/server/repositories/refreshtokens"
)

// MemoryRepositoryManager vends in-memory repositories. Data lives as long
// as the process.
type MemoryRepositoryManager struct {
	accounts      *accounts.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		accounts:      accounts.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }
