package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/socialnet/internal/db"
	"github.com/nkiryanov/socialnet/internal/handlers"
	"github.com/nkiryanov/socialnet/internal/handlers/validate"
	"github.com/nkiryanov/socialnet/internal/logger"
	"github.com/nkiryanov/socialnet/internal/repository"
	"github.com/nkiryanov/socialnet/internal/repository/memory"
	"github.com/nkiryanov/socialnet/internal/repository/postgres"
	"github.com/nkiryanov/socialnet/internal/service/auth"
	"github.com/nkiryanov/socialnet/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/socialnet/internal/service/tokensweeper"
	"github.com/nkiryanov/socialnet/internal/service/user"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	sweeper *tokensweeper.Sweeper
	logger  logger.Logger
	close   func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	hasher, err := newHasher(c)
	if err != nil {
		return nil, err
	}

	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		Access:         tokenmanager.KeyConfig{Secret: c.AccessTokenSecret, TTL: c.AccessTokenTTL},
		Refresh:        tokenmanager.KeyConfig{Secret: c.RefreshTokenSecret, TTL: c.RefreshTokenTTL},
		EmailVerify:    tokenmanager.KeyConfig{Secret: c.EmailVerifyTokenSecret, TTL: c.EmailVerifyTokenTTL},
		ForgotPassword: tokenmanager.KeyConfig{Secret: c.ForgotPasswordTokenSecret, TTL: c.ForgotPasswordTokenTTL},
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager: %w", err)
	}

	// Connect to the database and run migrations. Without database everything is kept in memory
	var storage repository.Storage
	closeStorage := func() {}
	if c.DatabaseDSN != "" {
		pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
		}
		storage = postgres.NewStorage(pool)
		closeStorage = pool.Close
	} else {
		logger.Warn("Database is not configured, data kept in memory")
		storage = memory.NewStorage()
	}

	// Initialize services
	authService, err := auth.NewService(auth.Config{Hasher: hasher, Logger: logger}, tokenManager, storage)
	if err != nil {
		closeStorage()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	userService := user.NewService(storage)

	router := handlers.NewRouter(
		handlers.RouterConfig{CORSOrigins: c.CORSOrigins},
		authService,
		userService,
		validate.New(tokenManager, authService, storage, logger),
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    router,
		sweeper:    tokensweeper.New(c.TokenSweepInterval, storage.Refresh(), logger),
		logger:     logger,
		close:      closeStorage,
	}, nil
}

func newHasher(c *Config) (auth.PasswordHasher, error) {
	switch c.PasswordHasher {
	case hasherArgon2:
		if c.PasswordSecret == "" {
			return nil, errors.New("password secret must be set for argon2 hasher")
		}
		return auth.Argon2Hasher{Secret: c.PasswordSecret}, nil
	case hasherBcrypt:
		return auth.BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", c.PasswordHasher)
	}
}

// Run starts http server and token sweeper, closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.close()

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	sweeperStopped := s.sweeper.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-sweeperStopped

	return err
}
