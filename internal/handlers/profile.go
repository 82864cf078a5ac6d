package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/socialnet/internal/handlers/render"
	"github.com/nkiryanov/socialnet/internal/handlers/reqctx"
	"github.com/nkiryanov/socialnet/internal/handlers/validate"
	"github.com/nkiryanov/socialnet/internal/logger"
	"github.com/nkiryanov/socialnet/internal/messages"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/service/user"
)

func handleGetMe(s userService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := reqctx.Payload(r.Context(), models.AccessToken)

		u, err := s.GetMe(r.Context(), payload.UserID)
		if err != nil {
			render.Error(w, l, err)
			return
		}

		render.Result(w, messages.GetMyProfileSuccess, newUserResponse(u))
	}
}

func handleGetProfile(s userService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.GetProfile(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			render.Error(w, l, err)
			return
		}

		render.Result(w, messages.GetProfileSuccess, newUserResponse(u))
	}
}

func handleUpdateProfile(s userService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := reqctx.Payload(r.Context(), models.AccessToken)
		body, _ := reqctx.Body[validate.UpdateProfileRequest](r.Context())

		u, err := s.UpdateProfile(r.Context(), payload.UserID, user.UpdateProfileParams{
			Name:        body.Name,
			DateOfBirth: body.DateOfBirth,
			Bio:         body.Bio,
			Location:    body.Location,
			Website:     body.Website,
			Username:    body.Username,
			Avatar:      body.Avatar,
			CoverPhoto:  body.CoverPhoto,
		})
		if err != nil {
			render.Error(w, l, err)
			return
		}

		render.Result(w, messages.UpdateMyProfileSuccess, newUserResponse(u))
	}
}

func handleFollow(s userService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := reqctx.Payload(r.Context(), models.AccessToken)
		body, _ := reqctx.Body[validate.FollowRequest](r.Context())

		followed, err := s.Follow(r.Context(), payload.UserID, uuid.MustParse(body.FollowedUserID))
		if err != nil {
			render.Error(w, l, err)
			return
		}

		if !followed {
			render.Message(w, messages.Followed)
			return
		}
		render.Message(w, messages.FollowSuccess)
	}
}

func handleUnfollow(s userService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := reqctx.Payload(r.Context(), models.AccessToken)
		params, _ := reqctx.Body[validate.UnfollowParams](r.Context())

		unfollowed, err := s.Unfollow(r.Context(), payload.UserID, uuid.MustParse(params.UserID))
		if err != nil {
			render.Error(w, l, err)
			return
		}

		if !unfollowed {
			render.Message(w, messages.AlreadyUnfollowed)
			return
		}
		render.Message(w, messages.UnfollowSuccess)
	}
}
