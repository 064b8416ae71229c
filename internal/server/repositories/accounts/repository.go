// Package accounts declares the account store contract and its PostgreSQL
// and in-memory implementations.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/staybook/internal/server/models"
)

// Repository persists accounts.
type Repository interface {
	// Create stores a new account, assigning its ID and timestamps. It returns
	// common.ErrorAlreadyExists when the email is already registered.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail looks an account up by its (lower-cased) email.
	// It returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByID returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
