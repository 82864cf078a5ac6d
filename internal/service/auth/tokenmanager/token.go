package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/socialnet/internal/models"
)

const (
	defaultSigningMethod          = "HS256"
	defaultAccessTokenTTL         = 15 * time.Minute
	defaultRefreshTokenTTL        = 100 * 24 * time.Hour
	defaultEmailVerifyTokenTTL    = 7 * 24 * time.Hour
	defaultForgotPasswordTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrSigning      = errors.New("token signing failed")
)

type claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID           `json:"user_id"`
	TokenType models.TokenKind    `json:"token_type"`
	Verify    models.VerifyStatus `json:"verify"`
}

// Secret and lifetime of one token kind
type KeyConfig struct {
	// Required to be set
	Secret string

	// If not set than default for the kind is used
	TTL time.Duration
}

// Token manager with sensible default
type Config struct {
	Access         KeyConfig
	Refresh        KeyConfig
	EmailVerify    KeyConfig
	ForgotPassword KeyConfig

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string
}

type key struct {
	secret []byte
	ttl    time.Duration
}

type TokenManager struct {
	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Secret and ttl for every token kind
	keys map[models.TokenKind]key

	now func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if _, ok := alg.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing method %q", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.Access.TTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.Refresh.TTL, defaultRefreshTokenTTL)
	setDefaultDuration(&cfg.EmailVerify.TTL, defaultEmailVerifyTokenTTL)
	setDefaultDuration(&cfg.ForgotPassword.TTL, defaultForgotPasswordTokenTTL)

	byKind := map[models.TokenKind]KeyConfig{
		models.AccessToken:         cfg.Access,
		models.RefreshToken:        cfg.Refresh,
		models.EmailVerifyToken:    cfg.EmailVerify,
		models.ForgotPasswordToken: cfg.ForgotPassword,
	}

	keys := make(map[models.TokenKind]key, len(byKind))
	seen := make(map[string]models.TokenKind, len(byKind))
	for kind, kc := range byKind {
		if kc.Secret == "" {
			return nil, fmt.Errorf("%s secret must not be empty", kind)
		}
		if other, ok := seen[kc.Secret]; ok {
			return nil, fmt.Errorf("%s and %s secrets must differ", other, kind)
		}
		seen[kc.Secret] = kind
		keys[kind] = key{secret: []byte(kc.Secret), ttl: kc.TTL}
	}

	return &TokenManager{
		alg:  alg,
		keys: keys,
		now:  time.Now,
	}, nil
}

type signOptions struct {
	expiresAt time.Time
}

type SignOption func(*signOptions)

// Expire at given time instead of now + ttl of the kind
func WithExpiresAt(t time.Time) SignOption {
	return func(o *signOptions) {
		o.expiresAt = t
	}
}

// Sign token of the kind with the kind secret
func (m *TokenManager) Sign(kind models.TokenKind, userID uuid.UUID, verify models.VerifyStatus, opts ...SignOption) (models.IssuedToken, error) {
	k, ok := m.keys[kind]
	if !ok {
		return models.IssuedToken{}, fmt.Errorf("%w: unknown token kind %d", ErrSigning, kind)
	}

	now := m.now().Truncate(time.Second)
	o := signOptions{expiresAt: now.Add(k.ttl)}
	for _, opt := range opts {
		opt(&o)
	}
	expiresAt := o.expiresAt.Truncate(time.Second)

	token := jwt.NewWithClaims(m.alg, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		TokenType: kind,
		Verify:    verify,
	})

	value, err := token.SignedString(k.secret)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("%w: %s: %w", ErrSigning, kind, err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// Verify token with the secret of expected kind
// Token signed for other kind never passes cause its signature made with other secret
func (m *TokenManager) Verify(kind models.TokenKind, token string) (models.TokenPayload, error) {
	k, ok := m.keys[kind]
	if !ok {
		return models.TokenPayload{}, fmt.Errorf("%w: unknown token kind %d", ErrTokenInvalid, kind)
	}

	c := &claims{}
	_, err := jwt.ParseWithClaims(
		token,
		c,
		func(t *jwt.Token) (any, error) {
			return k.secret, nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.TokenPayload{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case err != nil:
		return models.TokenPayload{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	case c.TokenType != kind:
		return models.TokenPayload{}, fmt.Errorf("%w: expected %s, got %s", ErrTokenInvalid, kind, c.TokenType)
	}

	payload := models.TokenPayload{
		UserID: c.UserID,
		Kind:   c.TokenType,
		Verify: c.Verify,
	}
	if c.IssuedAt != nil {
		payload.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		payload.ExpiresAt = c.ExpiresAt.Time
	}

	return payload, nil
}
