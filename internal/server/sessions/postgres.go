package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
)

// PostgresStore keeps sessions in the sessions table: one row per account,
// token unique across rows.
type PostgresStore struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// Put upserts the account's row in a single statement, so concurrent
// rotations for one account resolve to the last writer.
func (s *PostgresStore) Put(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
	`
	if _, err := s.db.ExecContext(ctx, query, accountID, token, expiresAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, token string) (string, error) {
	query := `
		SELECT user_id
		FROM sessions
		WHERE token = $1 AND expires_at > $2
	`
	var accountID string
	if err := s.db.QueryRowContext(ctx, query, token, s.now()).Scan(&accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return accountID, nil
}

func (s *PostgresStore) Remove(ctx context.Context, token string) (*Record, error) {
	query := `
		DELETE FROM sessions
		WHERE token = $1
		RETURNING user_id, token, expires_at
	`
	rec := &Record{}
	if err := s.db.QueryRowContext(ctx, query, token).Scan(&rec.AccountID, &rec.Token, &rec.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}
