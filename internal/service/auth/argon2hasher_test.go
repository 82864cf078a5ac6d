package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Argon2Hasher(t *testing.T) {
	t.Parallel()

	h := Argon2Hasher{Secret: "pepper"}

	t.Run("hash is deterministic", func(t *testing.T) {
		first, err := h.Hash("password")
		require.NoError(t, err)
		second, err := h.Hash("password")
		require.NoError(t, err)

		require.Len(t, first, 64, "32 bytes hex encoded")
		require.Equal(t, first, second)
	})

	t.Run("secret changes hash", func(t *testing.T) {
		first, err := h.Hash("password")
		require.NoError(t, err)
		other, err := Argon2Hasher{Secret: "salt"}.Hash("password")
		require.NoError(t, err)

		require.NotEqual(t, first, other)
	})

	t.Run("compare password ok", func(t *testing.T) {
		hash, err := h.Hash("password")
		require.NoError(t, err)

		err = h.Compare(hash, "password")

		require.NoError(t, err)
	})

	t.Run("fail compare if wrong password", func(t *testing.T) {
		hash, err := h.Hash("password")
		require.NoError(t, err)

		err = h.Compare(hash, "wrong")

		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("fail without secret", func(t *testing.T) {
		_, err := Argon2Hasher{}.Hash("password")

		require.Error(t, err)
	})
}
