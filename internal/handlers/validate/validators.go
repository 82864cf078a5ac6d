package validate

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/handlers/reqctx"
	"github.com/nkiryanov/socialnet/internal/handlers/render"
	"github.com/nkiryanov/socialnet/internal/logger"
	"github.com/nkiryanov/socialnet/internal/messages"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/repository"
	"github.com/nkiryanov/socialnet/internal/service/auth/tokenmanager"
)

type tokenVerifier interface {
	Verify(kind models.TokenKind, token string) (models.TokenPayload, error)
}

type credentialChecker interface {
	// Has to return apperrors.ErrUserNotFound if no user with the email and password
	CheckCredentials(ctx context.Context, email string, password string) (models.User, error)
}

// Validators builds validation middlewares for every route
type Validators struct {
	validate *validator.Validate
	tokens   tokenVerifier
	auth     credentialChecker
	storage  repository.Storage
	logger   logger.Logger
}

func New(tokens tokenVerifier, auth credentialChecker, storage repository.Storage, l logger.Logger) *Validators {
	return &Validators{
		validate: newValidator(),
		tokens:   tokens,
		auth:     auth,
		storage:  storage,
		logger:   l,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50,strongpassword"`
}

func (v *Validators) Login() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[LoginRequest]{
		Location: Body,
		Checks: []Check[LoginRequest]{
			{Field: "email", Run: func(in *Input[LoginRequest]) error {
				user, err := v.auth.CheckCredentials(in.Context(), in.Value.Email, in.Value.Password)
				if errors.Is(err, apperrors.ErrUserNotFound) {
					return Fail(messages.UserIsNotFound)
				}
				if err != nil {
					return err
				}
				in.Attach(func(ctx context.Context) context.Context { return reqctx.WithUser(ctx, user) })
				return nil
			}},
		},
	})
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=3,max=10"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=50,strongpassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required,min=6,max=50,strongpassword,eqfield=Password"`
	DateOfBirth     string `json:"date_of_birth" validate:"required,iso8601"`
}

func (v *Validators) Register() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[RegisterRequest]{
		Location: Body,
		Checks: []Check[RegisterRequest]{
			{Field: "email", Run: func(in *Input[RegisterRequest]) error {
				_, err := v.storage.User().GetUserByEmail(in.Context(), in.Value.Email)
				switch {
				case err == nil:
					return Fail(messages.EmailAlreadyExists)
				case errors.Is(err, apperrors.ErrUserNotFound):
					return nil
				default:
					return err
				}
			}},
		},
	})
}

type AuthorizationHeader struct {
	Authorization string `json:"Authorization"`
}

// Bearer access token in Authorization header
func (v *Validators) AccessToken() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[AuthorizationHeader]{
		Location: Headers,
		Decode: func(r *http.Request) (AuthorizationHeader, error) {
			return AuthorizationHeader{Authorization: r.Header.Get("Authorization")}, nil
		},
		Checks: []Check[AuthorizationHeader]{
			{Field: "Authorization", Run: func(in *Input[AuthorizationHeader]) error {
				scheme, token, found := strings.Cut(in.Value.Authorization, " ")
				if !found || scheme != "Bearer" || token == "" {
					return apperrors.NewStatus(http.StatusUnauthorized, messages.AccessTokenIsRequired)
				}

				payload, err := v.tokens.Verify(models.AccessToken, token)
				if err != nil {
					return tokenStatus(err, messages.AccessTokenIsExpired, messages.AccessTokenIsInvalid)
				}

				in.Attach(func(ctx context.Context) context.Context { return reqctx.WithPayload(ctx, payload) })
				return nil
			}},
		},
	})
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh token must verify and be present in the store
func (v *Validators) RefreshToken() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[RefreshTokenRequest]{
		Location: Body,
		Checks: []Check[RefreshTokenRequest]{
			{Field: "refresh_token", Run: func(in *Input[RefreshTokenRequest]) error {
				token := in.Value.RefreshToken
				if token == "" {
					return apperrors.NewStatus(http.StatusUnauthorized, messages.RefreshTokenIsRequired)
				}

				payload, err := v.tokens.Verify(models.RefreshToken, token)
				if err != nil {
					return tokenStatus(err, messages.RefreshTokenIsExpired, messages.RefreshTokenIsInvalid)
				}

				_, err = v.storage.Refresh().Get(in.Context(), token)
				if errors.Is(err, apperrors.ErrRefreshTokenNotFound) {
					return apperrors.WrapStatus(http.StatusUnauthorized, messages.UsedRefreshTokenOrNotExist, err)
				}
				if err != nil {
					return err
				}

				in.Attach(func(ctx context.Context) context.Context { return reqctx.WithPayload(ctx, payload) })
				return nil
			}},
		},
	})
}

type EmailVerifyTokenRequest struct {
	EmailVerifyToken string `json:"email_verify_token"`
}

// Email verify token must verify and be the one stored on the user
func (v *Validators) EmailVerifyToken() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[EmailVerifyTokenRequest]{
		Location: Body,
		Checks: []Check[EmailVerifyTokenRequest]{
			{Field: "email_verify_token", Run: func(in *Input[EmailVerifyTokenRequest]) error {
				token := in.Value.EmailVerifyToken
				if token == "" {
					return apperrors.NewStatus(http.StatusUnauthorized, messages.EmailVerifyTokenIsRequired)
				}

				payload, err := v.tokens.Verify(models.EmailVerifyToken, token)
				if err != nil {
					return tokenStatus(err, messages.EmailVerifyTokenIsExpired, messages.EmailVerifyTokenIsInvalid)
				}

				user, err := v.userByID(in.Context(), payload.UserID)
				if err != nil {
					return err
				}

				switch {
				case user.Verify == models.Verified && user.EmailVerifyToken == "":
					return apperrors.NewStatus(http.StatusConflict, messages.EmailAlreadyVerified)
				case user.EmailVerifyToken != token:
					return apperrors.NewStatus(http.StatusUnauthorized, messages.EmailVerifyTokenIsInvalid)
				}

				in.Attach(func(ctx context.Context) context.Context {
					return reqctx.WithUser(reqctx.WithPayload(ctx, payload), user)
				})
				return nil
			}},
		},
	})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (v *Validators) ForgotPassword() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[ForgotPasswordRequest]{
		Location: Body,
		Checks: []Check[ForgotPasswordRequest]{
			{Field: "email", Run: func(in *Input[ForgotPasswordRequest]) error {
				user, err := v.storage.User().GetUserByEmail(in.Context(), in.Value.Email)
				if errors.Is(err, apperrors.ErrUserNotFound) {
					return Fail(messages.UserIsNotFound)
				}
				if err != nil {
					return err
				}
				in.Attach(func(ctx context.Context) context.Context { return reqctx.WithUser(ctx, user) })
				return nil
			}},
		},
	})
}

type ForgotPasswordTokenRequest struct {
	ForgotPasswordToken string `json:"forgot_password_token"`
}

// Forgot password token must verify and be the last one issued to the user
func (v *Validators) ForgotPasswordToken() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[ForgotPasswordTokenRequest]{
		Location: Body,
		Checks: []Check[ForgotPasswordTokenRequest]{
			{Field: "forgot_password_token", Run: func(in *Input[ForgotPasswordTokenRequest]) error {
				token := in.Value.ForgotPasswordToken
				if token == "" {
					return apperrors.NewStatus(http.StatusUnauthorized, messages.ForgotPasswordTokenIsRequired)
				}

				payload, err := v.tokens.Verify(models.ForgotPasswordToken, token)
				if err != nil {
					return tokenStatus(err, messages.ForgotPasswordTokenIsExpired, messages.ForgotPasswordTokenIsInvalid)
				}

				user, err := v.userByID(in.Context(), payload.UserID)
				if err != nil {
					return err
				}

				if user.ForgotPasswordToken != token {
					return apperrors.NewStatus(http.StatusUnauthorized, messages.ForgotPasswordTokenIsInvalid)
				}

				in.Attach(func(ctx context.Context) context.Context {
					return reqctx.WithUser(reqctx.WithPayload(ctx, payload), user)
				})
				return nil
			}},
		},
	})
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=6,max=50,strongpassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required,min=6,max=50,strongpassword,eqfield=Password"`
}

// Passwords only. Chain with ForgotPasswordToken for the token
func (v *Validators) ResetPassword() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[ResetPasswordRequest]{Location: Body})
}

// Access token payload must carry verified status. Use after AccessToken
func (v *Validators) Verified() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := reqctx.Payload(r.Context(), models.AccessToken)
			if !ok || payload.Verify != models.Verified {
				render.Error(w, v.logger, apperrors.NewStatus(http.StatusForbidden, messages.UserNotVerified))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,iso8601"`
	Bio         *string `json:"bio" validate:"omitempty,max=200"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Website     *string `json:"website" validate:"omitempty,max=200"`
	Username    *string `json:"username" validate:"omitempty,username"`
	Avatar      *string `json:"avatar" validate:"omitempty,max=400"`
	CoverPhoto  *string `json:"cover_photo" validate:"omitempty,max=400"`
}

// Profile patch. Use after AccessToken
func (v *Validators) UpdateProfile() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[UpdateProfileRequest]{
		Location: Body,
		Messages: map[string]string{
			"name.required": messages.NameIsRequired,
			"name.min":      messages.NameLengthFrom1To100,
			"name.max":      messages.NameLengthFrom1To100,
		},
		Checks: []Check[UpdateProfileRequest]{
			{Field: "username", Run: func(in *Input[UpdateProfileRequest]) error {
				if in.Value.Username == nil {
					return nil
				}

				owner, err := v.storage.User().GetUserByUsername(in.Context(), *in.Value.Username)
				switch {
				case errors.Is(err, apperrors.ErrUserNotFound):
					return nil
				case err != nil:
					return err
				}

				payload, _ := reqctx.Payload(in.Context(), models.AccessToken)
				if owner.ID != payload.UserID {
					return Fail(messages.UsernameAlreadyExists)
				}
				return nil
			}},
		},
	})
}

type FollowRequest struct {
	FollowedUserID string `json:"followed_user_id" validate:"required,uuid"`
}

func (v *Validators) Follow() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[FollowRequest]{
		Location: Body,
		Checks: []Check[FollowRequest]{
			{Field: "followed_user_id", Run: func(in *Input[FollowRequest]) error {
				_, err := v.userByID(in.Context(), uuid.MustParse(in.Value.FollowedUserID))
				return err
			}},
		},
	})
}

type UnfollowParams struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

func (v *Validators) Unfollow() func(http.Handler) http.Handler {
	return run(v.validate, v.logger, Schema[UnfollowParams]{
		Location: Params,
		Decode: func(r *http.Request) (UnfollowParams, error) {
			return UnfollowParams{UserID: chi.URLParam(r, "user_id")}, nil
		},
		Checks: []Check[UnfollowParams]{
			{Field: "user_id", Run: func(in *Input[UnfollowParams]) error {
				_, err := v.userByID(in.Context(), uuid.MustParse(in.Value.UserID))
				return err
			}},
		},
	})
}

// Look up user, absent one is 404
func (v *Validators) userByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	user, err := v.storage.User().GetUserByID(ctx, id)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return user, apperrors.WrapStatus(http.StatusNotFound, messages.UserIsNotFound, err)
	}
	return user, err
}

func tokenStatus(err error, expiredMsg string, invalidMsg string) error {
	if errors.Is(err, tokenmanager.ErrTokenExpired) {
		return apperrors.WrapStatus(http.StatusUnauthorized, expiredMsg, err)
	}
	return apperrors.WrapStatus(http.StatusUnauthorized, invalidMsg, err)
}
