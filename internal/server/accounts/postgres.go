package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
)

// emailConstraint is the unique index name created by the migrations.
const emailConstraint = "users_email_key"

const selectColumns = `id, email, password_hash, activation_link, is_activated, created_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	query := `
		INSERT INTO users (email, password_hash, activation_link)
		VALUES ($1, $2, $3)
		RETURNING id, is_activated, created_at
	`
	out := *account
	err := r.db.QueryRowContext(ctx, query, account.Email, account.PasswordHash, account.ActivationLink).
		Scan(&out.ID, &out.IsActivated, &out.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) && dbx.ConstraintName(err) == emailConstraint {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByActivationLink(ctx context.Context, link string) (*Account, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM users WHERE activation_link = $1`, link)
}

func (r *PostgresRepository) Activate(ctx context.Context, link string) (*Account, error) {
	return r.getOne(ctx, `UPDATE users SET is_activated = TRUE WHERE activation_link = $1 RETURNING `+selectColumns, link)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM users ORDER BY created_at, email`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*Account
	for rows.Next() {
		a := &Account{}
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.ActivationLink, &a.IsActivated, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*Account, error) {
	a := &Account{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.ActivationLink, &a.IsActivated, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}
