package auth

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt password hasher
// Salted per record, so digests never compared directly, only with Compare
type BcryptHasher struct{}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], bcrypt.DefaultCost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
