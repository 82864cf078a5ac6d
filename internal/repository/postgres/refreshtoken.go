package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const saveToken = `-- name: Save Refresh Token
INSERT INTO refresh_tokens (id, user_id, token, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, token, created_at, expires_at`

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshTokenRecord) (models.RefreshTokenRecord, error) {
	rows, _ := r.DB.Query(ctx, saveToken, token.ID, token.UserID, token.Token, token.CreatedAt, token.ExpiresAt)
	saved, err := pgx.CollectOneRow(rows, rowToRefreshToken)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

const getToken = `-- name: GetToken by string itself
SELECT id, user_id, token, created_at, expires_at
FROM refresh_tokens
WHERE token = $1
`

// Get token
// It should return result even it expired already
func (r *RefreshTokenRepo) Get(ctx context.Context, tokenString string) (models.RefreshTokenRecord, error) {
	rows, _ := r.DB.Query(ctx, getToken, tokenString)
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const deleteToken = `-- name: Delete token
DELETE FROM refresh_tokens
WHERE token = $1
`

func (r *RefreshTokenRepo) Delete(ctx context.Context, tokenString string) error {
	_, err := r.DB.Exec(ctx, deleteToken, tokenString)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Single statement: the new token is inserted only if the old one was deleted by this very statement.
// Concurrent rotation of the same token waits on the row lock and then deletes nothing
const rotateToken = `-- name: Rotate token
WITH deleted AS (
	DELETE FROM refresh_tokens
	WHERE token = $1 AND user_id = $3
	RETURNING id
)
INSERT INTO refresh_tokens (id, user_id, token, created_at, expires_at)
SELECT $2, $3, $4, $5, $6 FROM deleted
RETURNING id, user_id, token, created_at, expires_at
`

func (r *RefreshTokenRepo) Rotate(ctx context.Context, oldToken string, token models.RefreshTokenRecord) (models.RefreshTokenRecord, error) {
	rows, _ := r.DB.Query(ctx, rotateToken, oldToken, token.ID, token.UserID, token.Token, token.CreatedAt, token.ExpiresAt)
	saved, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return saved, nil
	case errors.Is(err, pgx.ErrNoRows):
		return saved, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return saved, fmt.Errorf("db error: %w", err)
	}
}

const deleteExpired = `-- name: Delete expired tokens
DELETE FROM refresh_tokens
WHERE expires_at < $1
`

func (r *RefreshTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteExpired, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshTokenRecord, error) {
	var t models.RefreshTokenRecord
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt)
	return t, err
}
