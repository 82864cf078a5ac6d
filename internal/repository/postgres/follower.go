package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/models"
)

type FollowerRepo struct {
	DB DBTX
}

const getFollower = `-- name: GetFollower
SELECT id, user_id, followed_user_id, created_at
FROM followers
WHERE user_id = $1 AND followed_user_id = $2
`

func (r *FollowerRepo) Get(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (models.Follower, error) {
	rows, _ := r.DB.Query(ctx, getFollower, userID, followedUserID)
	f, err := pgx.CollectOneRow(rows, rowToFollower)

	switch {
	case err == nil:
		return f, nil
	case errors.Is(err, pgx.ErrNoRows):
		return f, apperrors.ErrFollowerNotFound
	default:
		return f, fmt.Errorf("db error: %w", err)
	}
}

const createFollower = `-- name: CreateFollower
INSERT INTO followers (id, user_id, followed_user_id, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, followed_user_id, created_at
`

func (r *FollowerRepo) Create(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (models.Follower, error) {
	rows, _ := r.DB.Query(ctx, createFollower, uuid.New(), userID, followedUserID, time.Now())
	f, err := pgx.CollectOneRow(rows, rowToFollower)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return f, apperrors.ErrAlreadyFollowing
		}
		return f, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

const deleteFollower = `-- name: DeleteFollower
DELETE FROM followers
WHERE user_id = $1 AND followed_user_id = $2
`

func (r *FollowerRepo) Delete(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteFollower, userID, followedUserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFollowerNotFound
	}
	return nil
}

func rowToFollower(row pgx.CollectableRow) (models.Follower, error) {
	var f models.Follower
	err := row.Scan(&f.ID, &f.UserID, &f.FollowedUserID, &f.CreatedAt)
	return f, err
}
