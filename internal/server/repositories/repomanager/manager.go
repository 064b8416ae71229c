// Package repomanager vends the account and session stores for the configured
// storage backend and owns their lifecycle.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/staybook/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/staybook/internal/server/repositories/refreshtokens"
)

type RepositoryManager interface {
	Accounts() accounts.Repository
	RefreshTokens() refreshtokens.Repository
	// RunMigrations brings the schema up to date. No-op for memory storage.
	RunMigrations(ctx context.Context) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	Close() error
}
