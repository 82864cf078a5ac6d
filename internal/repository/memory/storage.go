// Package memory keeps everything in process maps.
// Used when no database configured and in service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/repository"
)

type followKey struct {
	userID         uuid.UUID
	followedUserID uuid.UUID
}

type Storage struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]models.User
	tokens    map[string]models.RefreshTokenRecord
	followers map[followKey]models.Follower
}

func NewStorage() *Storage {
	return &Storage{
		users:     map[uuid.UUID]models.User{},
		tokens:    map[string]models.RefreshTokenRecord{},
		followers: map[followKey]models.Follower{},
	}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{s: s}
}

func (s *Storage) Refresh() repository.RefreshTokenRepo {
	return &RefreshTokenRepo{s: s}
}

func (s *Storage) Follower() repository.FollowerRepo {
	return &FollowerRepo{s: s}
}

// InTx runs fn against the same storage. Writes done before an error are not rolled back
func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s)
}

type UserRepo struct {
	s *Storage
}

func (r *UserRepo) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existed := range r.s.users {
		if existed.Email == u.Email {
			return models.User{}, apperrors.ErrEmailAlreadyExists
		}
		if existed.Username == u.Username {
			return models.User{}, apperrors.ErrUsernameTaken
		}
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.UpdatedAt = u.CreatedAt

	r.s.users[u.ID] = u
	return u, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *UserRepo) find(match func(models.User) bool) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, apperrors.ErrUserNotFound
}

func (r *UserRepo) UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}

	if upd.Username != nil && *upd.Username != u.Username {
		for _, existed := range r.s.users {
			if existed.Username == *upd.Username {
				return models.User{}, apperrors.ErrUsernameTaken
			}
		}
	}

	set(&u.Name, upd.Name)
	set(&u.DateOfBirth, upd.DateOfBirth)
	set(&u.Bio, upd.Bio)
	set(&u.Location, upd.Location)
	set(&u.Website, upd.Website)
	set(&u.Username, upd.Username)
	set(&u.Avatar, upd.Avatar)
	set(&u.CoverPhoto, upd.CoverPhoto)
	set(&u.HashedPassword, upd.HashedPassword)
	set(&u.Verify, upd.Verify)
	set(&u.EmailVerifyToken, upd.EmailVerifyToken)
	set(&u.ForgotPasswordToken, upd.ForgotPasswordToken)
	u.UpdatedAt = time.Now()

	r.s.users[id] = u
	return u, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

type RefreshTokenRepo struct {
	s *Storage
}

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshTokenRecord) (models.RefreshTokenRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tokens[token.Token] = token
	return token, nil
}

func (r *RefreshTokenRepo) Get(ctx context.Context, tokenString string) (models.RefreshTokenRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tokens[tokenString]
	if !ok {
		return models.RefreshTokenRecord{}, apperrors.ErrRefreshTokenNotFound
	}
	return t, nil
}

func (r *RefreshTokenRepo) Delete(ctx context.Context, tokenString string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.tokens, tokenString)
	return nil
}

func (r *RefreshTokenRepo) Rotate(ctx context.Context, oldToken string, token models.RefreshTokenRecord) (models.RefreshTokenRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.tokens[oldToken]
	if !ok || old.UserID != token.UserID {
		return models.RefreshTokenRecord{}, apperrors.ErrRefreshTokenNotFound
	}

	delete(r.s.tokens, oldToken)
	r.s.tokens[token.Token] = token
	return token, nil
}

func (r *RefreshTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for key, t := range r.s.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.s.tokens, key)
			deleted++
		}
	}
	return deleted, nil
}

type FollowerRepo struct {
	s *Storage
}

func (r *FollowerRepo) Get(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (models.Follower, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.followers[followKey{userID, followedUserID}]
	if !ok {
		return models.Follower{}, apperrors.ErrFollowerNotFound
	}
	return f, nil
}

func (r *FollowerRepo) Create(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (models.Follower, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := followKey{userID, followedUserID}
	if _, ok := r.s.followers[key]; ok {
		return models.Follower{}, apperrors.ErrAlreadyFollowing
	}

	f := models.Follower{
		ID:             uuid.New(),
		UserID:         userID,
		FollowedUserID: followedUserID,
		CreatedAt:      time.Now(),
	}
	r.s.followers[key] = f
	return f, nil
}

func (r *FollowerRepo) Delete(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := followKey{userID, followedUserID}
	if _, ok := r.s.followers[key]; !ok {
		return apperrors.ErrFollowerNotFound
	}
	delete(r.s.followers, key)
	return nil
}
