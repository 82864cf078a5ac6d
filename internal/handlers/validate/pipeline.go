package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/handlers/reqctx"
	"github.com/nkiryanov/socialnet/internal/handlers/render"
	"github.com/nkiryanov/socialnet/internal/logger"
	"github.com/nkiryanov/socialnet/internal/messages"
)

// Where validated values come from
type Location string

const (
	Body    Location = "body"
	Headers Location = "headers"
	Params  Location = "params"
)

const maxBodySize = 1 << 20

// Cosmetic field failure. Folded into the aggregate, pipeline goes on
type fieldFailure struct {
	msg string
}

func (f *fieldFailure) Error() string {
	return f.msg
}

// Fail marks field as invalid with the message
func Fail(msg string) error {
	return &fieldFailure{msg: msg}
}

// Input is the decoded request value together with context checks may extend
type Input[T any] struct {
	Value   T
	Request *http.Request
	ctx     context.Context
}

func (in *Input[T]) Context() context.Context {
	return in.ctx
}

// Attach derived values (token payload, looked up user) for the next handlers
func (in *Input[T]) Attach(fn func(context.Context) context.Context) {
	in.ctx = fn(in.ctx)
}

// Effectful check of one field. May consult the store or the token manager.
// Result:
//   - nil: field ok
//   - Fail(msg): field failure collected with others
//   - *apperrors.StatusError: stop and respond with it
//   - any other error: stop and respond as internal error
type Check[T any] struct {
	Field string
	Run   func(in *Input[T]) error
}

type Schema[T any] struct {
	Location Location

	// Decode request into T. If nil, JSON body decoded
	Decode func(r *http.Request) (T, error)

	// Messages for 'field.tag' structural failures, used before default ones
	Messages map[string]string

	Checks []Check[T]
}

// Runs schema against the request: structural pass, then checks.
// On success validated value is attached to request context, see reqctx.Body
func run[T any](v *validator.Validate, l logger.Logger, schema Schema[T]) func(http.Handler) http.Handler {
	decode := schema.Decode
	if decode == nil {
		decode = decodeJSONBody[T]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, err := decode(r)
			if err != nil {
				render.Error(w, l, decodeError(err, schema.Location))
				return
			}

			// Structural pass: pure, no I/O
			errs, err := structural(v, value, schema.Location, schema.Messages)
			if err != nil {
				render.Error(w, l, err)
				return
			}
			if errs == nil {
				errs = map[string]apperrors.FieldError{}
			}

			// Effectful pass
			in := &Input[T]{Value: value, Request: r, ctx: r.Context()}
			for _, check := range schema.Checks {
				if _, failed := errs[check.Field]; failed {
					continue
				}

				err := check.Run(in)
				if err == nil {
					continue
				}

				var failure *fieldFailure
				if errors.As(err, &failure) {
					errs[check.Field] = apperrors.FieldError{Msg: failure.msg, Path: check.Field, Location: string(schema.Location)}
					continue
				}

				// Status errors go as is, the rest become internal ones
				render.Error(w, l, err)
				return
			}

			if len(errs) > 0 {
				render.Error(w, l, apperrors.NewEntity(errs))
				return
			}

			ctx := reqctx.WithBody(in.ctx, value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Decode JSON body and put it back, so next schemas on the route may read it again
func decodeJSONBody[T any](r *http.Request) (T, error) {
	var value T

	if r.Body == nil {
		return value, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return value, fmt.Errorf("can't read request body: %w", err)
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return value, nil
	}

	err = json.Unmarshal(raw, &value)
	return value, err
}

// Decoding failures are field failures when field known, otherwise whole body is invalid
func decodeError(err error, location Location) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.NewEntity(map[string]apperrors.FieldError{
			typeErr.Field: {Msg: messages.FieldMustBeString, Path: typeErr.Field, Location: string(location)},
		})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return apperrors.NewEntity(map[string]apperrors.FieldError{
			string(location): {Msg: messages.InvalidRequestBody, Path: string(location), Location: string(location)},
		})
	}

	return err
}
