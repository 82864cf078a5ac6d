package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/repository/memory"
	"github.com/nkiryanov/socialnet/internal/service/auth/tokenmanager"
)

func newTokenManager(t *testing.T) *tokenmanager.TokenManager {
	m, err := tokenmanager.New(tokenmanager.Config{
		Access:         tokenmanager.KeyConfig{Secret: "access-secret"},
		Refresh:        tokenmanager.KeyConfig{Secret: "refresh-secret"},
		EmailVerify:    tokenmanager.KeyConfig{Secret: "email-verify-secret"},
		ForgotPassword: tokenmanager.KeyConfig{Secret: "forgot-password-secret"},
	})
	require.NoError(t, err, "token manager should be created without errors")
	return m
}

func Test_Auth(t *testing.T) {
	t.Parallel()

	hasher := Argon2Hasher{Secret: "test-password-secret"}

	// Fresh service on empty memory storage
	newService := func(t *testing.T) (*AuthService, *memory.Storage, *tokenmanager.TokenManager) {
		storage := memory.NewStorage()
		tokens := newTokenManager(t)

		s, err := NewService(Config{Hasher: hasher}, tokens, storage)
		require.NoError(t, err, "auth service could't be started")

		return s, storage, tokens
	}

	register := func(t *testing.T, s *AuthService, email string) models.TokenPair {
		pair, err := s.Register(t.Context(), RegisterParams{
			Name:        "Nikita",
			Email:       email,
			Password:    "Aa1!bc",
			DateOfBirth: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err, "registering new user should be ok")
		return pair
	}

	t.Run("new service without hasher fail", func(t *testing.T) {
		_, err := NewService(Config{}, newTokenManager(t), memory.NewStorage())

		require.Error(t, err)
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("new user ok", func(t *testing.T) {
			s, storage, tokens := newService(t)

			pair := register(t, s, "nk@example.com")

			access, err := tokens.Verify(models.AccessToken, pair.Access.Value)
			require.NoError(t, err, "access token must verify with access secret")
			refresh, err := tokens.Verify(models.RefreshToken, pair.Refresh.Value)
			require.NoError(t, err, "refresh token must verify with refresh secret")

			user, err := storage.User().GetUserByEmail(t.Context(), "nk@example.com")
			require.NoError(t, err)

			assert.Equal(t, user.ID, access.UserID)
			assert.Equal(t, user.ID, refresh.UserID)
			assert.Equal(t, models.Unverified, access.Verify)
			assert.Equal(t, models.Unverified, refresh.Verify)

			assert.Equal(t, models.Unverified, user.Verify)
			assert.Equal(t, "user"+uuidHex(user.ID), user.Username, "username should be generated")
			assert.NotEqual(t, "Aa1!bc", user.HashedPassword, "password must be hashed")
			assert.NoError(t, hasher.Compare(user.HashedPassword, "Aa1!bc"))

			verify, err := tokens.Verify(models.EmailVerifyToken, user.EmailVerifyToken)
			require.NoError(t, err, "email verify token has to be issued")
			assert.Equal(t, user.ID, verify.UserID)

			_, err = storage.Refresh().Get(t.Context(), pair.Refresh.Value)
			assert.NoError(t, err, "refresh token has to be stored")
		})

		t.Run("fail if email exists", func(t *testing.T) {
			s, _, _ := newService(t)
			register(t, s, "nk@example.com")

			_, err := s.Register(t.Context(), RegisterParams{Name: "Other", Email: "nk@example.com", Password: "Aa1!bc"})

			require.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
			var entityErr *apperrors.EntityError
			require.ErrorAs(t, err, &entityErr, "taken email is a validation error")
			assert.Equal(t, http.StatusUnprocessableEntity, entityErr.Status)
			assert.Equal(t, "Email already exists", entityErr.Errors["email"].Msg)
		})
	})

	t.Run("CheckCredentials", func(t *testing.T) {
		s, _, _ := newService(t)
		register(t, s, "nk@example.com")

		user, err := s.CheckCredentials(t.Context(), "nk@example.com", "Aa1!bc")
		require.NoError(t, err)
		assert.Equal(t, "nk@example.com", user.Email)

		_, err = s.CheckCredentials(t.Context(), "nk@example.com", "Aa1!bd")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "wrong password looks like absent user")

		_, err = s.CheckCredentials(t.Context(), "nobody@example.com", "Aa1!bc")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("Login", func(t *testing.T) {
		s, storage, tokens := newService(t)
		userID := uuid.New()

		pair, err := s.Login(t.Context(), userID, models.Verified)

		require.NoError(t, err)
		access, err := tokens.Verify(models.AccessToken, pair.Access.Value)
		require.NoError(t, err)
		assert.Equal(t, userID, access.UserID)
		assert.Equal(t, models.Verified, access.Verify)

		stored, err := storage.Refresh().Get(t.Context(), pair.Refresh.Value)
		require.NoError(t, err)
		assert.Equal(t, userID, stored.UserID)
		assert.Equal(t, pair.Refresh.ExpiresAt, stored.ExpiresAt)
	})

	t.Run("Logout", func(t *testing.T) {
		s, storage, _ := newService(t)
		pair := register(t, s, "nk@example.com")

		require.NoError(t, s.Logout(t.Context(), pair.Refresh.Value))
		_, err := storage.Refresh().Get(t.Context(), pair.Refresh.Value)
		require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)

		require.NoError(t, s.Logout(t.Context(), pair.Refresh.Value), "second logout is ok too")
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("rotate ok", func(t *testing.T) {
			s, storage, tokens := newService(t)
			initial := register(t, s, "nk@example.com")
			payload, err := tokens.Verify(models.RefreshToken, initial.Refresh.Value)
			require.NoError(t, err)

			pair, err := s.Refresh(t.Context(), payload, initial.Refresh.Value)

			require.NoError(t, err)
			require.NotEqual(t, initial.Refresh.Value, pair.Refresh.Value, "new refresh token should be different")
			assert.Equal(t, initial.Refresh.ExpiresAt, pair.Refresh.ExpiresAt, "session expiry must be kept")

			_, err = storage.Refresh().Get(t.Context(), initial.Refresh.Value)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound, "old token must be deleted")
			_, err = storage.Refresh().Get(t.Context(), pair.Refresh.Value)
			assert.NoError(t, err, "new token must be stored")
		})

		t.Run("fail if used once", func(t *testing.T) {
			s, _, tokens := newService(t)
			initial := register(t, s, "nk@example.com")
			payload, err := tokens.Verify(models.RefreshToken, initial.Refresh.Value)
			require.NoError(t, err)

			_, err = s.Refresh(t.Context(), payload, initial.Refresh.Value)
			require.NoError(t, err)

			_, err = s.Refresh(t.Context(), payload, initial.Refresh.Value)

			var statusErr *apperrors.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})

		t.Run("fail if logged out", func(t *testing.T) {
			s, _, tokens := newService(t)
			initial := register(t, s, "nk@example.com")
			payload, err := tokens.Verify(models.RefreshToken, initial.Refresh.Value)
			require.NoError(t, err)
			require.NoError(t, s.Logout(t.Context(), initial.Refresh.Value))

			_, err = s.Refresh(t.Context(), payload, initial.Refresh.Value)

			require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("VerifyEmail", func(t *testing.T) {
		s, storage, tokens := newService(t)
		register(t, s, "nk@example.com")
		user, err := storage.User().GetUserByEmail(t.Context(), "nk@example.com")
		require.NoError(t, err)

		pair, err := s.VerifyEmail(t.Context(), user.ID)

		require.NoError(t, err)
		access, err := tokens.Verify(models.AccessToken, pair.Access.Value)
		require.NoError(t, err)
		assert.Equal(t, models.Verified, access.Verify, "new pair carries new status")

		user, err = storage.User().GetUserByID(t.Context(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.Verified, user.Verify)
		assert.Empty(t, user.EmailVerifyToken)
	})

	t.Run("VerifyEmail not existed user", func(t *testing.T) {
		s, _, _ := newService(t)

		_, err := s.VerifyEmail(t.Context(), uuid.New())

		var statusErr *apperrors.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.Status)
	})

	t.Run("ResendEmailVerify", func(t *testing.T) {
		s, storage, _ := newService(t)
		register(t, s, "nk@example.com")
		before, err := storage.User().GetUserByEmail(t.Context(), "nk@example.com")
		require.NoError(t, err)

		sent, err := s.ResendEmailVerify(t.Context(), before.ID)

		require.NoError(t, err)
		assert.True(t, sent)
		after, err := storage.User().GetUserByID(t.Context(), before.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, after.EmailVerifyToken)
		assert.NotEqual(t, before.EmailVerifyToken, after.EmailVerifyToken, "token must be overwritten")

		_, err = s.VerifyEmail(t.Context(), before.ID)
		require.NoError(t, err)

		sent, err = s.ResendEmailVerify(t.Context(), before.ID)
		require.NoError(t, err)
		assert.False(t, sent, "verified user gets nothing")
	})

	t.Run("ForgotPassword and ResetPassword", func(t *testing.T) {
		s, storage, tokens := newService(t)
		register(t, s, "nk@example.com")
		user, err := storage.User().GetUserByEmail(t.Context(), "nk@example.com")
		require.NoError(t, err)

		require.NoError(t, s.ForgotPassword(t.Context(), user.ID, user.Verify))
		first, err := storage.User().GetUserByID(t.Context(), user.ID)
		require.NoError(t, err)
		require.NoError(t, s.ForgotPassword(t.Context(), user.ID, user.Verify))
		second, err := storage.User().GetUserByID(t.Context(), user.ID)
		require.NoError(t, err)

		assert.NotEqual(t, first.ForgotPasswordToken, second.ForgotPasswordToken, "second issuance overwrites first")
		payload, err := tokens.Verify(models.ForgotPasswordToken, second.ForgotPasswordToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, payload.UserID)

		err = s.ResetPassword(t.Context(), user.ID, "Bb2@cd")
		require.NoError(t, err)

		updated, err := storage.User().GetUserByID(t.Context(), user.ID)
		require.NoError(t, err)
		assert.Empty(t, updated.ForgotPasswordToken)
		assert.NoError(t, hasher.Compare(updated.HashedPassword, "Bb2@cd"))

		_, err = s.CheckCredentials(t.Context(), "nk@example.com", "Aa1!bc")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "old password must not work")
	})
}

func uuidHex(id uuid.UUID) string {
	return id.String()[0:8] + id.String()[9:13] + id.String()[14:18] + id.String()[19:23] + id.String()[24:]
}
