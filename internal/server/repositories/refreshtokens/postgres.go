package refreshtokens

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/staybook/internal/dbx"
)

// PostgresRepository stores refresh tokens in the refresh_tokens table.
// Insertion order is kept by the serial id column.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository constructs a repository bound to db. It needs a
// *sql.DB rather than dbx.DBTX because Rotate opens its own transaction.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, accountID, token string) error {
	return insert(ctx, r.db, accountID, token)
}

func (r *PostgresRepository) Remove(ctx context.Context, accountID, token string) error {
	return remove(ctx, r.db, accountID, token)
}

func (r *PostgresRepository) Contains(ctx context.Context, accountID, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM refresh_tokens
			WHERE account_id = $1 AND token = $2
		)
	`
	var found bool
	if err := r.db.QueryRowContext(ctx, query, accountID, token).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

func (r *PostgresRepository) Rotate(ctx context.Context, accountID, oldToken, newToken string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := remove(ctx, tx, accountID, oldToken); err != nil {
			return err
		}
		return insert(ctx, tx, accountID, newToken)
	})
}

func (r *PostgresRepository) List(ctx context.Context, accountID string) ([]string, error) {
	query := `
		SELECT token
		FROM refresh_tokens
		WHERE account_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tokens, nil
}

func insert(ctx context.Context, db dbx.DBTX, accountID, token string) error {
	query := `
		INSERT INTO refresh_tokens (account_id, token)
		VALUES ($1, $2)
	`
	if _, err := db.ExecContext(ctx, query, accountID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func remove(ctx context.Context, db dbx.DBTX, accountID, token string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE account_id = $1 AND token = $2
	`
	if _, err := db.ExecContext(ctx, query, accountID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
