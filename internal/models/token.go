package models

import (
	"time"

	"github.com/google/uuid"
)

// Purpose of signed token. Every kind is signed with its own secret
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
	EmailVerifyToken
	ForgotPasswordToken
)

func (k TokenKind) String() string {
	switch k {
	case AccessToken:
		return "access_token"
	case RefreshToken:
		return "refresh_token"
	case EmailVerifyToken:
		return "email_verify_token"
	case ForgotPasswordToken:
		return "forgot_password_token"
	default:
		return "unknown"
	}
}

// Decoded claims of any signed token
type TokenPayload struct {
	UserID    uuid.UUID
	Kind      TokenKind
	Verify    VerifyStatus
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Stored refresh token. Token presence in store is what makes it valid
type RefreshTokenRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued on login, register, refresh and email verification
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
