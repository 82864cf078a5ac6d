package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/logger"
	"github.com/nkiryanov/socialnet/internal/messages"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/repository"
	"github.com/nkiryanov/socialnet/internal/service/auth/tokenmanager"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type tokenSigner interface {
	Sign(kind models.TokenKind, userID uuid.UUID, verify models.VerifyStatus, opts ...tokenmanager.SignOption) (models.IssuedToken, error)
}

type Config struct {
	// Hasher to use during user registration, login or password reset
	// Required to be set
	Hasher PasswordHasher

	// If not set than no-op logger used
	Logger logger.Logger
}

// Auth service
// Credentials and tokens are expected to be validated already, service does not check them again
type AuthService struct {
	// Signer to issue tokens of every kind
	tokens tokenSigner

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Repository to access long term data
	storage repository.Storage

	logger logger.Logger
	now    func() time.Time
}

func NewService(cfg Config, tokens tokenSigner, storage repository.Storage) (*AuthService, error) {
	if cfg.Hasher == nil {
		return nil, errors.New("password hasher must be set")
	}
	if tokens == nil || storage == nil {
		return nil, errors.New("token signer and storage must not be nil")
	}

	l := cfg.Logger
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &AuthService{
		tokens:  tokens,
		hasher:  cfg.Hasher,
		storage: storage,
		logger:  l,
		now:     time.Now,
	}, nil
}

type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	DateOfBirth time.Time
}

// Create unverified user and log him in
// If email taken returns validation error on email wrapping apperrors.ErrEmailAlreadyExists
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (models.TokenPair, error) {
	var pair models.TokenPair

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return pair, fmt.Errorf("can't use this as password, error=%w", err)
	}

	id := uuid.New()
	verifyToken, err := s.tokens.Sign(models.EmailVerifyToken, id, models.Unverified)
	if err != nil {
		return pair, err
	}

	now := s.now()
	user := models.User{
		ID:               id,
		Name:             params.Name,
		Email:            params.Email,
		HashedPassword:   hash,
		Username:         defaultUsername(id),
		DateOfBirth:      params.DateOfBirth,
		Verify:           models.Unverified,
		EmailVerifyToken: verifyToken.Value,
		CreatedAt:        now,
	}

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		if _, err := storage.User().CreateUser(ctx, user); err != nil {
			return err
		}
		pair, err = s.issuePair(ctx, storage, id, models.Unverified)
		return err
	})
	switch {
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		// Lost the race with concurrent registration on the same email
		entityErr := apperrors.NewEntity(map[string]apperrors.FieldError{
			"email": {Msg: messages.EmailAlreadyExists, Path: "email", Location: "body"},
		})
		entityErr.Err = err
		return models.TokenPair{}, entityErr
	case err != nil:
		return models.TokenPair{}, err
	}

	s.logger.Debug("Email verify token issued", "user_id", id, "email_verify_token", verifyToken.Value)
	return pair, nil
}

// System generated username: 'user' followed by id hex
func defaultUsername(id uuid.UUID) string {
	return "user" + strings.ReplaceAll(id.String(), "-", "")
}

// Return user with the email if password matches
// Has to return apperrors.ErrUserNotFound if user not exists or password wrong
func (s *AuthService) CheckCredentials(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}

	err = s.hasher.Compare(user.HashedPassword, password)
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		return models.User{}, apperrors.ErrUserNotFound
	case err != nil:
		return models.User{}, fmt.Errorf("can't compare password, error=%w", err)
	}

	return user, nil
}

// Issue new token pair for already authenticated user
func (s *AuthService) Login(ctx context.Context, userID uuid.UUID, verify models.VerifyStatus) (models.TokenPair, error) {
	return s.issuePair(ctx, s.storage, userID, verify)
}

// Delete refresh token. Deleting not existed token is ok
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	return s.storage.Refresh().Delete(ctx, refresh)
}

// Replace presented refresh token with new pair
// New refresh token expires when the presented one does, so the session can't be prolonged forever
func (s *AuthService) Refresh(ctx context.Context, payload models.TokenPayload, oldRefresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := s.tokens.Sign(models.AccessToken, payload.UserID, payload.Verify)
	if err != nil {
		return pair, err
	}

	var opts []tokenmanager.SignOption
	if !payload.ExpiresAt.IsZero() {
		opts = append(opts, tokenmanager.WithExpiresAt(payload.ExpiresAt))
	}
	refresh, err := s.tokens.Sign(models.RefreshToken, payload.UserID, payload.Verify, opts...)
	if err != nil {
		return pair, err
	}

	_, err = s.storage.Refresh().Rotate(ctx, oldRefresh, models.RefreshTokenRecord{
		ID:        uuid.New(),
		UserID:    payload.UserID,
		Token:     refresh.Value,
		CreatedAt: s.now(),
		ExpiresAt: refresh.ExpiresAt,
	})
	if errors.Is(err, apperrors.ErrRefreshTokenNotFound) {
		return pair, apperrors.WrapStatus(http.StatusUnauthorized, messages.UsedRefreshTokenOrNotExist, err)
	}
	if err != nil {
		return pair, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Mark user verified, forget the verify token and issue pair with new status
func (s *AuthService) VerifyEmail(ctx context.Context, userID uuid.UUID) (models.TokenPair, error) {
	var pair models.TokenPair

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		verified, empty := models.Verified, ""
		_, err := storage.User().UpdateUser(ctx, userID, models.UserUpdate{
			Verify:           &verified,
			EmailVerifyToken: &empty,
		})
		if err != nil {
			return err
		}

		pair, err = s.issuePair(ctx, storage, userID, models.Verified)
		return err
	})
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return pair, apperrors.WrapStatus(http.StatusNotFound, messages.UserIsNotFound, err)
	}

	return pair, err
}

// Issue new verify token, the previous one stops working
// Return false if user verified already and nothing was done
func (s *AuthService) ResendEmailVerify(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return false, apperrors.WrapStatus(http.StatusNotFound, messages.UserIsNotFound, err)
	}
	if err != nil {
		return false, err
	}

	if user.Verify == models.Verified {
		return false, nil
	}

	token, err := s.tokens.Sign(models.EmailVerifyToken, userID, user.Verify)
	if err != nil {
		return false, err
	}

	_, err = s.storage.User().UpdateUser(ctx, userID, models.UserUpdate{EmailVerifyToken: &token.Value})
	if err != nil {
		return false, err
	}

	s.logger.Debug("Email verify token issued", "user_id", userID, "email_verify_token", token.Value)
	return true, nil
}

// Issue and store forgot password token, the previous one stops working
func (s *AuthService) ForgotPassword(ctx context.Context, userID uuid.UUID, verify models.VerifyStatus) error {
	token, err := s.tokens.Sign(models.ForgotPasswordToken, userID, verify)
	if err != nil {
		return err
	}

	_, err = s.storage.User().UpdateUser(ctx, userID, models.UserUpdate{ForgotPasswordToken: &token.Value})
	if err != nil {
		return err
	}

	s.logger.Debug("Forgot password token issued", "user_id", userID, "forgot_password_token", token.Value)
	return nil
}

// Replace password and forget the forgot password token
func (s *AuthService) ResetPassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("can't use this as password, error=%w", err)
	}

	empty := ""
	_, err = s.storage.User().UpdateUser(ctx, userID, models.UserUpdate{
		HashedPassword:      &hash,
		ForgotPasswordToken: &empty,
	})
	return err
}

func (s *AuthService) issuePair(ctx context.Context, storage repository.Storage, userID uuid.UUID, verify models.VerifyStatus) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := s.tokens.Sign(models.AccessToken, userID, verify)
	if err != nil {
		return pair, err
	}
	refresh, err := s.tokens.Sign(models.RefreshToken, userID, verify)
	if err != nil {
		return pair, err
	}

	_, err = storage.Refresh().Save(ctx, models.RefreshTokenRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     refresh.Value,
		CreatedAt: s.now(),
		ExpiresAt: refresh.ExpiresAt,
	})
	if err != nil {
		return pair, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}
