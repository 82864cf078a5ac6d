// Package reqctx keeps values derived by request validation: decoded bodies, token payloads, the looked up user
package reqctx

import (
	"context"

	"github.com/nkiryanov/socialnet/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

type payloadKey models.TokenKind

type bodyKey[T any] struct{}

// Create a new context with the user
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// Extract the user from the context
func User(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// Create a new context with decoded token payload. Payloads of different kinds live side by side
func WithPayload(ctx context.Context, p models.TokenPayload) context.Context {
	return context.WithValue(ctx, payloadKey(p.Kind), p)
}

// Extract payload of the kind from the context
func Payload(ctx context.Context, kind models.TokenKind) (models.TokenPayload, bool) {
	p, ok := ctx.Value(payloadKey(kind)).(models.TokenPayload)
	return p, ok
}

// Create a new context with validated request value. Values keyed by their type
func WithBody[T any](ctx context.Context, body T) context.Context {
	return context.WithValue(ctx, bodyKey[T]{}, body)
}

// Extract validated request value of type T
func Body[T any](ctx context.Context) (T, bool) {
	b, ok := ctx.Value(bodyKey[T]{}).(T)
	return b, ok
}
