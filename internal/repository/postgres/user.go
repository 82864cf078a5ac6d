package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, name, email, hashed_password, username, date_of_birth, verify,
	email_verify_token, forgot_password_token, bio, location, website, avatar, cover_photo,
	created_at, updated_at`

const createUser = `-- name: CreateUser
INSERT INTO users (id, name, email, hashed_password, username, date_of_birth, verify, email_verify_token, forgot_password_token, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser,
		u.ID, u.Name, u.Email, u.HashedPassword, u.Username, u.DateOfBirth, int16(u.Verify),
		u.EmailVerifyToken, u.ForgotPasswordToken, u.CreatedAt,
	)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return user, apperrors.ErrUsernameTaken
			default:
				return user, apperrors.ErrEmailAlreadyExists
			}
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: getUserByID
SELECT ` + userColumns + ` FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	return collectUser(rows)
}

const getUserByEmail = `-- name: getUserByEmail
SELECT ` + userColumns + ` FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const getUserByUsername = `-- name: getUserByUsername
SELECT ` + userColumns + ` FROM users
WHERE username = $1
`

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	return collectUser(rows)
}

// NULL parameters keep the current column value
const updateUser = `-- name: UpdateUser
UPDATE users SET
	name = COALESCE($2, name),
	date_of_birth = COALESCE($3, date_of_birth),
	bio = COALESCE($4, bio),
	location = COALESCE($5, location),
	website = COALESCE($6, website),
	username = COALESCE($7, username),
	avatar = COALESCE($8, avatar),
	cover_photo = COALESCE($9, cover_photo),
	hashed_password = COALESCE($10, hashed_password),
	verify = COALESCE($11, verify),
	email_verify_token = COALESCE($12, email_verify_token),
	forgot_password_token = COALESCE($13, forgot_password_token),
	updated_at = now()
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (models.User, error) {
	var verify *int16
	if upd.Verify != nil {
		v := int16(*upd.Verify)
		verify = &v
	}

	rows, _ := r.DB.Query(ctx, updateUser, id,
		upd.Name, upd.DateOfBirth, upd.Bio, upd.Location, upd.Website, upd.Username, upd.Avatar, upd.CoverPhoto,
		upd.HashedPassword, verify, upd.EmailVerifyToken, upd.ForgotPasswordToken,
	)
	user, err := collectUser(rows)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return user, apperrors.ErrUsernameTaken
	}

	return user, err
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	var verify int16
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.Username, &u.DateOfBirth, &verify,
		&u.EmailVerifyToken, &u.ForgotPasswordToken, &u.Bio, &u.Location, &u.Website, &u.Avatar, &u.CoverPhoto,
		&u.CreatedAt, &u.UpdatedAt,
	)
	u.Verify = models.VerifyStatus(verify)
	return u, err
}
