// Package refreshtokens declares the session store: the per-account, ordered
// collection of refresh tokens that are currently valid.
package refreshtokens

import "context"

// Repository keeps the refresh tokens of each account. A refresh token is
// honored only while it is present in its owner's collection.
type Repository interface {
	// Add appends token to the account's collection.
	Add(ctx context.Context, accountID, token string) error

	// Remove deletes token from the account's collection. Removing a token
	// that is not present is not an error.
	Remove(ctx context.Context, accountID, token string) error

	// Contains reports whether token is in the account's collection.
	Contains(ctx context.Context, accountID, token string) (bool, error)

	// Rotate removes oldToken and appends newToken in one atomic write.
	// It succeeds even if oldToken is already gone.
	Rotate(ctx context.Context, accountID, oldToken, newToken string) error

	// List returns the account's tokens, oldest first.
	List(ctx context.Context, accountID string) ([]string, error)
}
