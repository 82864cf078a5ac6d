package auth

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/argon2"
)

var ErrPasswordMismatch = errors.New("password mismatch")

// Argon2id password hasher salted by configuration, not per record.
// Same password always gives same digest, so digests may be compared directly
type Argon2Hasher struct {
	Secret string
}

func (h Argon2Hasher) Hash(password string) (string, error) {
	if h.Secret == "" {
		return "", errors.New("argon2 hasher secret must not be empty")
	}
	key := argon2.IDKey([]byte(password), []byte(h.Secret), 1, 64*1024, 4, 32)
	return hex.EncodeToString(key), nil
}

func (h Argon2Hasher) Compare(hashedPassword string, password string) error {
	hash, err := h.Hash(password)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(hash), []byte(hashedPassword)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
