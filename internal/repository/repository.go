package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/socialnet/internal/models"
)

// Storage groups entity repositories sharing one connection (or one transaction)
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Follower() FollowerRepo

	// Run fn with storage bound to single transaction
	// Commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}

// User repository interface
type UserRepo interface {
	// Create user
	// If email is taken has to return apperrors.ErrEmailAlreadyExists
	// If username is taken has to return apperrors.ErrUsernameTaken
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// Get user by it's id, email or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Apply partial update and return updated user
	// If user not found must return apperrors.ErrUserNotFound
	UpdateUser(ctx context.Context, userID uuid.UUID, update models.UserUpdate) (models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Save token in repository
	Save(ctx context.Context, token models.RefreshTokenRecord) (models.RefreshTokenRecord, error)

	// Return the token if it exists in the repository, apperrors.ErrRefreshTokenNotFound otherwise
	// It should return result even it expired already
	Get(ctx context.Context, tokenString string) (models.RefreshTokenRecord, error)

	// Delete token by its string. Deleting not existed token is not an error
	Delete(ctx context.Context, tokenString string) error

	// Atomically replace old token with the new one
	// If old token not exists (already rotated or deleted) must return apperrors.ErrRefreshTokenNotFound and save nothing
	Rotate(ctx context.Context, oldToken string, token models.RefreshTokenRecord) (models.RefreshTokenRecord, error)

	// Delete tokens expired before the time. Return count of deleted tokens
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Follower relation repository interface
type FollowerRepo interface {
	// Get relation. If not exists must return apperrors.ErrFollowerNotFound
	Get(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (models.Follower, error)

	// Create relation. If exists already must return apperrors.ErrAlreadyFollowing
	Create(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (models.Follower, error)

	// Delete relation. If not exists must return apperrors.ErrFollowerNotFound
	Delete(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) error
}
