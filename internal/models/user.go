package models

import (
	"time"

	"github.com/google/uuid"
)

type VerifyStatus int

const (
	Unverified VerifyStatus = iota
	Verified
	Banned
)

func (s VerifyStatus) String() string {
	switch s {
	case Unverified:
		return "unverified"
	case Verified:
		return "verified"
	case Banned:
		return "banned"
	default:
		return "unknown"
	}
}

type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	HashedPassword string
	Username       string
	DateOfBirth    time.Time
	Verify         VerifyStatus

	// Outstanding single-use tokens. Empty string means there is no one
	EmailVerifyToken    string
	ForgotPasswordToken string

	Bio        string
	Location   string
	Website    string
	Avatar     string
	CoverPhoto string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Partial user update. Nil fields are left untouched
type UserUpdate struct {
	Name        *string
	DateOfBirth *time.Time
	Bio         *string
	Location    *string
	Website     *string
	Username    *string
	Avatar      *string
	CoverPhoto  *string

	HashedPassword      *string
	Verify              *VerifyStatus
	EmailVerifyToken    *string
	ForgotPasswordToken *string
}

type Follower struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	FollowedUserID uuid.UUID
	CreatedAt      time.Time
}
