package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/socialnet/internal/models"
)

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func newTokenPairResponse(pair models.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	}
}

// Account as it shown to clients. No password hash and outstanding tokens here
type userResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Verify      string    `json:"verify"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	Avatar      string    `json:"avatar"`
	CoverPhoto  string    `json:"cover_photo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Username:    u.Username,
		DateOfBirth: u.DateOfBirth,
		Verify:      u.Verify.String(),
		Bio:         u.Bio,
		Location:    u.Location,
		Website:     u.Website,
		Avatar:      u.Avatar,
		CoverPhoto:  u.CoverPhoto,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
