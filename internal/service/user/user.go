package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/messages"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/repository"
)

type UserService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *UserService {
	return &UserService{storage: storage}
}

func (s *UserService) GetMe(ctx context.Context, userID uuid.UUID) (models.User, error) {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	return user, notFoundStatus(err)
}

func (s *UserService) GetProfile(ctx context.Context, username string) (models.User, error) {
	user, err := s.storage.User().GetUserByUsername(ctx, username)
	return user, notFoundStatus(err)
}

// Only these fields may be changed by user himself. Nil means leave as is
type UpdateProfileParams struct {
	Name        *string
	DateOfBirth *string
	Bio         *string
	Location    *string
	Website     *string
	Username    *string
	Avatar      *string
	CoverPhoto  *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (models.User, error) {
	upd := models.UserUpdate{
		Name:       params.Name,
		Bio:        params.Bio,
		Location:   params.Location,
		Website:    params.Website,
		Username:   params.Username,
		Avatar:     params.Avatar,
		CoverPhoto: params.CoverPhoto,
	}

	if params.DateOfBirth != nil {
		dob, err := models.ParseDate(*params.DateOfBirth)
		if err != nil {
			return models.User{}, fmt.Errorf("can't parse date of birth: %w", err)
		}
		upd.DateOfBirth = &dob
	}

	user, err := s.storage.User().UpdateUser(ctx, userID, upd)
	if errors.Is(err, apperrors.ErrUsernameTaken) {
		return user, apperrors.WrapStatus(http.StatusConflict, messages.UsernameAlreadyExists, err)
	}
	return user, notFoundStatus(err)
}

// Follow user. Return false if followed already
func (s *UserService) Follow(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (bool, error) {
	_, err := s.storage.Follower().Get(ctx, userID, followedUserID)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, apperrors.ErrFollowerNotFound):
		return false, err
	}

	_, err = s.storage.Follower().Create(ctx, userID, followedUserID)
	switch {
	case errors.Is(err, apperrors.ErrAlreadyFollowing):
		return false, nil
	case err != nil:
		return false, err
	}

	return true, nil
}

// Unfollow user. Return false if not followed yet
func (s *UserService) Unfollow(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (bool, error) {
	err := s.storage.Follower().Delete(ctx, userID, followedUserID)
	switch {
	case errors.Is(err, apperrors.ErrFollowerNotFound):
		return false, nil
	case err != nil:
		return false, err
	}

	return true, nil
}

func notFoundStatus(err error) error {
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return apperrors.WrapStatus(http.StatusNotFound, messages.UserIsNotFound, err)
	}
	return err
}
