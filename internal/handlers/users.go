package handlers

import (
	"net/http"

	"github.com/nkiryanov/socialnet/internal/handlers/render"
	"github.com/nkiryanov/socialnet/internal/handlers/reqctx"
	"github.com/nkiryanov/socialnet/internal/handlers/validate"
	"github.com/nkiryanov/socialnet/internal/logger"
	"github.com/nkiryanov/socialnet/internal/messages"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/service/auth"
)

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Message(w, "OK")
	}
}

func handleLogin(s authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := reqctx.User(r.Context())

		pair, err := s.Login(r.Context(), user.ID, user.Verify)
		if err != nil {
			render.Error(w, l, err)
			return
		}

		render.Result(w, messages.LoginSuccess, newTokenPairResponse(pair))
	}
}

func handleRegister(s authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := reqctx.Body[validate.RegisterRequest](r.Context())

		dob, err := models.ParseDate(body.DateOfBirth)
		if err != nil {
			render.Error(w, l, err)
			return
		}

		pair, err := s.Register(r.Context(), auth.RegisterParams{
			Name:        body.Name,
			Email:       body.Email,
			Password:    body.Password,
			DateOfBirth: dob,
		})
		if err != nil {
			render.Error(w, l, err)
			return
		}

		render.Result(w, messages.RegisterSuccess, newTokenPairResponse(pair))
	}
}

func handleLogout(s authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := reqctx.Body[validate.RefreshTokenRequest](r.Context())

		if err := s.Logout(r.Context(), body.RefreshToken); err != nil {
			render.Error(w, l, err)
			return
		}

		render.Message(w, messages.LogoutSuccess)
	}
}

func handleRefreshToken(s authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := reqctx.Body[validate.RefreshTokenRequest](r.Context())
		payload, _ := reqctx.Payload(r.Context(), models.RefreshToken)

		pair, err := s.Refresh(r.Context(), payload, body.RefreshToken)
		if err != nil {
			render.Error(w, l, err)
			return
		}

		render.Result(w, messages.RefreshTokenSuccess, newTokenPairResponse(pair))
	}
}

func handleVerifyEmail(s authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := reqctx.User(r.Context())

		pair, err := s.VerifyEmail(r.Context(), user.ID)
		if err != nil {
			render.Error(w, l, err)
			return
		}

		render.Result(w, messages.EmailVerifySuccess, newTokenPairResponse(pair))
	}
}

func handleResendVerifyEmail(s authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := reqctx.Payload(r.Context(), models.AccessToken)

		sent, err := s.ResendEmailVerify(r.Context(), payload.UserID)
		if err != nil {
			render.Error(w, l, err)
			return
		}

		if !sent {
			render.Message(w, messages.EmailAlreadyVerified)
			return
		}
		render.Message(w, messages.ResendVerifyEmailSuccess)
	}
}

func handleForgotPassword(s authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := reqctx.User(r.Context())

		if err := s.ForgotPassword(r.Context(), user.ID, user.Verify); err != nil {
			render.Error(w, l, err)
			return
		}

		render.Message(w, messages.CheckEmailToResetPassword)
	}
}

// Token checked by validation already
func handleVerifyForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Message(w, messages.VerifyForgotPasswordSuccess)
	}
}

func handleResetPassword(s authService, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := reqctx.User(r.Context())
		body, _ := reqctx.Body[validate.ResetPasswordRequest](r.Context())

		if err := s.ResetPassword(r.Context(), user.ID, body.Password); err != nil {
			render.Error(w, l, err)
			return
		}

		render.Message(w, messages.ResetPasswordSuccess)
	}
}
