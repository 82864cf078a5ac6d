package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/socialnet/internal/logger"
)

const (
	defaultListenAddr     = "localhost:8000"
	defaultLoggingLevel   = logger.LevelInfo
	defaultEnvironment    = logger.EnvProduction
	defaultPasswordHasher = hasherArgon2
	defaultSweepInterval  = time.Hour
)

// Supported password hashers
const (
	hasherArgon2 = "argon2"
	hasherBcrypt = "bcrypt"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to. If empty, in memory storage is used
	DatabaseDSN string

	// Environment: 'dev' or 'prod'
	Environment string

	// Every token kind signed with its own secret
	AccessTokenSecret         string
	RefreshTokenSecret        string
	EmailVerifyTokenSecret    string
	ForgotPasswordTokenSecret string

	// Token lifetimes. Zero means default one
	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	EmailVerifyTokenTTL    time.Duration
	ForgotPasswordTokenTTL time.Duration

	// Password hasher ('argon2' or 'bcrypt') and secret used as argon2 salt
	PasswordHasher string
	PasswordSecret string

	// Allowed CORS origins. Any if empty
	CORSOrigins []string

	// How often expired refresh tokens are deleted
	TokenSweepInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		LogLevel:           defaultLoggingLevel,
		ListenAddr:         defaultListenAddr,
		Environment:        defaultEnvironment,
		PasswordHasher:     defaultPasswordHasher,
		TokenSweepInterval: defaultSweepInterval,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}
	setList := func(o *[]string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = strings.Split(value, ",")
			}
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":                  setString(&c.ListenAddr),
		"DATABASE_URI":                 setString(&c.DatabaseDSN),
		"LOG_LEVEL":                    setString(&c.LogLevel),
		"ENVIRONMENT":                  setString(&c.Environment),
		"ACCESS_TOKEN_SECRET":          setString(&c.AccessTokenSecret),
		"REFRESH_TOKEN_SECRET":         setString(&c.RefreshTokenSecret),
		"EMAIL_VERIFY_TOKEN_SECRET":    setString(&c.EmailVerifyTokenSecret),
		"FORGOT_PASSWORD_TOKEN_SECRET": setString(&c.ForgotPasswordTokenSecret),
		"ACCESS_TOKEN_TTL":             setDuration(&c.AccessTokenTTL),
		"REFRESH_TOKEN_TTL":            setDuration(&c.RefreshTokenTTL),
		"EMAIL_VERIFY_TOKEN_TTL":       setDuration(&c.EmailVerifyTokenTTL),
		"FORGOT_PASSWORD_TOKEN_TTL":    setDuration(&c.ForgotPasswordTokenTTL),
		"PASSWORD_HASHER":              setString(&c.PasswordHasher),
		"PASSWORD_SECRET":              setString(&c.PasswordSecret),
		"CORS_ORIGINS":                 setList(&c.CORSOrigins),
		"TOKEN_SWEEP_INTERVAL":         setDuration(&c.TokenSweepInterval),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("socialnet", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	fs.StringVar(&c.AccessTokenSecret, "access-token-secret", c.AccessTokenSecret, "Access token secret")
	fs.StringVar(&c.RefreshTokenSecret, "refresh-token-secret", c.RefreshTokenSecret, "Refresh token secret")
	fs.StringVar(&c.EmailVerifyTokenSecret, "email-verify-token-secret", c.EmailVerifyTokenSecret, "Email verify token secret")
	fs.StringVar(&c.ForgotPasswordTokenSecret, "forgot-password-token-secret", c.ForgotPasswordTokenSecret, "Forgot password token secret")

	fs.DurationVar(&c.AccessTokenTTL, "access-token-ttl", c.AccessTokenTTL, "Access token lifetime")
	fs.DurationVar(&c.RefreshTokenTTL, "refresh-token-ttl", c.RefreshTokenTTL, "Refresh token lifetime")
	fs.DurationVar(&c.EmailVerifyTokenTTL, "email-verify-token-ttl", c.EmailVerifyTokenTTL, "Email verify token lifetime")
	fs.DurationVar(&c.ForgotPasswordTokenTTL, "forgot-password-token-ttl", c.ForgotPasswordTokenTTL, "Forgot password token lifetime")

	fs.StringVar(&c.PasswordHasher, "password-hasher", c.PasswordHasher, "Password hasher (argon2, bcrypt)")
	fs.StringVar(&c.PasswordSecret, "password-secret", c.PasswordSecret, "Password hashing secret")
	fs.StringSliceVar(&c.CORSOrigins, "cors-origins", c.CORSOrigins, "Allowed CORS origins")
	fs.DurationVar(&c.TokenSweepInterval, "token-sweep-interval", c.TokenSweepInterval, "Interval between expired refresh tokens sweeps")

	return fs.Parse(args)
}
