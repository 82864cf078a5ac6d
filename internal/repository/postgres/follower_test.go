package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/repository"
	"github.com/nkiryanov/socialnet/internal/testutil"
)

func Test_FollowerRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	twoUsers := func(t *testing.T, tx pgx.Tx) (models.User, models.User) {
		users := UserRepo{DB: tx}
		alice, err := users.CreateUser(t.Context(), newUser("alice"))
		require.NoError(t, err)
		bob, err := users.CreateUser(t.Context(), newUser("bob"))
		require.NoError(t, err)
		return alice, bob
	}

	t.Run("create and get ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			alice, bob := twoUsers(t, tx)
			repo := FollowerRepo{DB: tx}

			created, err := repo.Create(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)

			got, err := repo.Get(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, alice.ID, got.UserID)
			assert.Equal(t, bob.ID, got.FollowedUserID)
		})
	})

	t.Run("relation is directed", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			alice, bob := twoUsers(t, tx)
			repo := FollowerRepo{DB: tx}
			_, err := repo.Create(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)

			_, err = repo.Get(t.Context(), bob.ID, alice.ID)

			require.ErrorIs(t, err, apperrors.ErrFollowerNotFound)
		})
	})

	t.Run("create twice fail", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			alice, bob := twoUsers(t, tx)
			repo := FollowerRepo{DB: tx}
			_, err := repo.Create(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)

			_, err = repo.Create(t.Context(), alice.ID, bob.ID)

			require.ErrorIs(t, err, apperrors.ErrAlreadyFollowing)
		})
	})

	t.Run("delete ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			alice, bob := twoUsers(t, tx)
			repo := FollowerRepo{DB: tx}
			_, err := repo.Create(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)

			err = repo.Delete(t.Context(), alice.ID, bob.ID)
			require.NoError(t, err)

			_, err = repo.Get(t.Context(), alice.ID, bob.ID)
			require.ErrorIs(t, err, apperrors.ErrFollowerNotFound)
		})
	})

	t.Run("delete not existed fail", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := FollowerRepo{DB: tx}

			err := repo.Delete(t.Context(), uuid.New(), uuid.New())

			require.ErrorIs(t, err, apperrors.ErrFollowerNotFound)
		})
	})
}

func Test_StorageInTx(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	storage := NewStorage(pg.Pool)

	t.Run("commit on success", func(t *testing.T) {
		u := newUser("committed")

		err := storage.InTx(t.Context(), func(s repository.Storage) error {
			_, err := s.User().CreateUser(t.Context(), u)
			return err
		})
		require.NoError(t, err)

		_, err = storage.User().GetUserByID(t.Context(), u.ID)
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		u := newUser("rolledback")

		err := storage.InTx(t.Context(), func(s repository.Storage) error {
			_, err := s.User().CreateUser(t.Context(), u)
			require.NoError(t, err)
			return apperrors.ErrEmailAlreadyExists
		})
		require.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

		_, err = storage.User().GetUserByID(t.Context(), u.ID)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
