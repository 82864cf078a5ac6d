package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/socialnet/internal/handlers/middleware"
	"github.com/nkiryanov/socialnet/internal/handlers/validate"
	"github.com/nkiryanov/socialnet/internal/logger"
	"github.com/nkiryanov/socialnet/internal/models"
	"github.com/nkiryanov/socialnet/internal/service/auth"
	"github.com/nkiryanov/socialnet/internal/service/user"
)

type RouterConfig struct {
	// Allowed CORS origins. Any origin if empty
	CORSOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	authService authService,
	userService userService,
	v *validate.Validators,
	logger logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggerMiddleware(logger),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.Get("/health", handleHealth())

	r.Route("/users", func(r chi.Router) {
		r.With(v.Login()).Post("/login", handleLogin(authService, logger))
		r.With(v.Register()).Post("/register", handleRegister(authService, logger))
		r.With(v.AccessToken(), v.RefreshToken()).Post("/logout", handleLogout(authService, logger))
		r.With(v.RefreshToken()).Post("/refresh_token", handleRefreshToken(authService, logger))
		r.With(v.EmailVerifyToken()).Post("/verify_email", handleVerifyEmail(authService, logger))
		r.With(v.AccessToken()).Post("/resend_email", handleResendVerifyEmail(authService, logger))
		r.With(v.ForgotPassword()).Post("/forgot_password", handleForgotPassword(authService, logger))
		r.With(v.ForgotPasswordToken()).Post("/verify_forgot_password", handleVerifyForgotPassword())
		r.With(v.ForgotPasswordToken(), v.ResetPassword()).Post("/reset_password", handleResetPassword(authService, logger))

		r.With(v.AccessToken()).Get("/profile", handleGetMe(userService, logger))
		r.With(v.AccessToken(), v.Verified(), v.UpdateProfile()).Patch("/profile", handleUpdateProfile(userService, logger))
		r.With(v.AccessToken(), v.Verified(), v.Follow()).Post("/follow", handleFollow(userService, logger))
		r.With(v.AccessToken(), v.Verified(), v.Unfollow()).Delete("/follow/{user_id}", handleUnfollow(userService, logger))

		r.Get("/{username}", handleGetProfile(userService, logger))
	})

	return r
}

type authService interface {
	// Create unverified account and issue token pair
	Register(ctx context.Context, params auth.RegisterParams) (models.TokenPair, error)

	// Issue token pair for already checked user
	Login(ctx context.Context, userID uuid.UUID, verify models.VerifyStatus) (models.TokenPair, error)

	// Forget refresh token. Forgetting absent one is not an error
	Logout(ctx context.Context, refresh string) error

	// Rotate refresh token. Used or absent token has to be status error with 401
	Refresh(ctx context.Context, payload models.TokenPayload, oldRefresh string) (models.TokenPair, error)

	VerifyEmail(ctx context.Context, userID uuid.UUID) (models.TokenPair, error)

	// Return false if user verified already
	ResendEmailVerify(ctx context.Context, userID uuid.UUID) (bool, error)

	ForgotPassword(ctx context.Context, userID uuid.UUID, verify models.VerifyStatus) error
	ResetPassword(ctx context.Context, userID uuid.UUID, password string) error
}

type userService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetProfile(ctx context.Context, username string) (models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params user.UpdateProfileParams) (models.User, error)

	// Return false if followed already
	Follow(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (bool, error)

	// Return false if not followed
	Unfollow(ctx context.Context, userID uuid.UUID, followedUserID uuid.UUID) (bool, error)
}
