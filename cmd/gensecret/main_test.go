package main

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

func Test_writeSecrets(t *testing.T) {
	var buf bytes.Buffer

	err := writeSecrets(&buf, rand.Reader)
	require.NoError(t, err)

	env, err := godotenv.Parse(strings.NewReader(buf.String()))
	require.NoError(t, err, "output must be valid .env")

	seen := map[string]bool{}
	for _, key := range secretKeys {
		require.Len(t, env[key], 2*SecretKeyBytesLen, "%s should be hex of %d bytes", key, SecretKeyBytesLen)
		require.False(t, seen[env[key]], "secrets must differ")
		seen[env[key]] = true
	}
}

func Test_writeSecretsShortRandom(t *testing.T) {
	err := writeSecrets(&bytes.Buffer{}, strings.NewReader("short"))

	require.Error(t, err)
}
