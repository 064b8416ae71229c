package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staybook/internal/common"
	"github.com/dmitrijs2005/staybook/internal/dbx"
	"github.com/dmitrijs2005/staybook/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectAccount = `SELECT id, first_name, last_name, email, phone, password_hash, role, is_verified, created_at, updated_at
		 FROM accounts`

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.Role == "" {
		account.Role = models.RoleGuest
	}

	query :=
		`INSERT INTO accounts (id, first_name, last_name, email, phone, password_hash, role, is_verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.FirstName, account.LastName, account.Email, account.Phone,
		account.PasswordHash, string(account.Role), account.IsVerified,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := selectAccount + `
		 WHERE lower(email) = $1
		 `
	return r.scanOne(ctx, query, strings.ToLower(email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	// ids come from token claims; anything that is not a uuid cannot exist
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	query := selectAccount + `
		 WHERE id = $1
		 `
	return r.scanOne(ctx, query, id)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	a := &models.Account{}
	var role string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.PasswordHash,
		&role, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Role = models.Role(role)
	return a, nil
}
