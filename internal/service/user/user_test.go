package user

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/repository"
	"github.com/nkiryanov/socialnet/internal/repository/postgres"
	"github.com/nkiryanov/socialnet/internal/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

func TestUser(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Helper function to create UserService within transaction
	inTx := func(t *testing.T, fn func(s *UserService, storage repository.Storage)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			fn(NewService(storage), storage)
		})
	}

	createUser := func(t *testing.T, storage repository.Storage, name string) models.User {
		id := uuid.New()
		user, err := storage.User().CreateUser(t.Context(), models.User{
			ID:             id,
			Name:           name,
			Email:          name + "@example.com",
			HashedPassword: "hash",
			Username:       name,
			DateOfBirth:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:      time.Now(),
		})
		require.NoError(t, err)
		return user
	}

	requireStatus := func(t *testing.T, err error, status int) {
		t.Helper()
		var statusErr *apperrors.StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, status, statusErr.Status)
	}

	t.Run("GetMe", func(t *testing.T) {
		t.Run("get ok", func(t *testing.T) {
			inTx(t, func(s *UserService, storage repository.Storage) {
				created := createUser(t, storage, "alice")

				got, err := s.GetMe(t.Context(), created.ID)

				require.NoError(t, err)
				assert.Equal(t, created.ID, got.ID)
			})
		})

		t.Run("not found", func(t *testing.T) {
			inTx(t, func(s *UserService, _ repository.Storage) {
				_, err := s.GetMe(t.Context(), uuid.New())

				requireStatus(t, err, http.StatusNotFound)
			})
		})
	})

	t.Run("GetProfile", func(t *testing.T) {
		inTx(t, func(s *UserService, storage repository.Storage) {
			created := createUser(t, storage, "alice")

			got, err := s.GetProfile(t.Context(), "alice")
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)

			_, err = s.GetProfile(t.Context(), "bob")
			requireStatus(t, err, http.StatusNotFound)
		})
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		t.Run("patch given fields", func(t *testing.T) {
			inTx(t, func(s *UserService, storage repository.Storage) {
				created := createUser(t, storage, "alice")

				got, err := s.UpdateProfile(t.Context(), created.ID, UpdateProfileParams{
					Bio:         ptr("gopher"),
					DateOfBirth: ptr("1991-02-03T10:00:00Z"),
					Username:    ptr("alice_2"),
				})

				require.NoError(t, err)
				assert.Equal(t, "gopher", got.Bio)
				assert.Equal(t, "alice_2", got.Username)
				assert.True(t, time.Date(1991, 2, 3, 0, 0, 0, 0, time.UTC).Equal(got.DateOfBirth), "date of birth is a calendar date")
				assert.Equal(t, created.Name, got.Name)
				assert.Equal(t, created.Email, got.Email)
			})
		})

		t.Run("username taken", func(t *testing.T) {
			inTx(t, func(s *UserService, storage repository.Storage) {
				createUser(t, storage, "alice")
				bob := createUser(t, storage, "bob")

				_, err := s.UpdateProfile(t.Context(), bob.ID, UpdateProfileParams{Username: ptr("alice")})

				requireStatus(t, err, http.StatusConflict)
			})
		})

		t.Run("invalid date", func(t *testing.T) {
			inTx(t, func(s *UserService, storage repository.Storage) {
				alice := createUser(t, storage, "alice")

				_, err := s.UpdateProfile(t.Context(), alice.ID, UpdateProfileParams{DateOfBirth: ptr("tomorrow")})

				require.ErrorIs(t, err, models.ErrInvalidDate)
			})
		})
	})

	t.Run("Follow and Unfollow", func(t *testing.T) {
		inTx(t, func(s *UserService, storage repository.Storage) {
			alice := createUser(t, storage, "alice")
			bob := createUser(t, storage, "bob")

			followed, err := s.Follow(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)
			assert.True(t, followed)

			followed, err = s.Follow(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)
			assert.False(t, followed, "second follow reports already following")

			unfollowed, err := s.Unfollow(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)
			assert.True(t, unfollowed)

			unfollowed, err = s.Unfollow(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)
			assert.False(t, unfollowed, "second unfollow reports not following yet")
		})
	})
}
