package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/nkiryanov/socialnet/internal/handlers/render"
)

type errorLogger interface {
	Error(msg string, args ...any)
}

// Recover handler panics, log the stack and answer with internal error
func RecoveryMiddleware(l errorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					if recovered == http.ErrAbortHandler {
						panic(recovered)
					}

					l.Error("panic recovered", "error", fmt.Sprintf("%v", recovered), "stack", string(debug.Stack()))
					render.Error(w, l, fmt.Errorf("panic: %v", recovered))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
