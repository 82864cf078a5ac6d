package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	preflight := func(h http.Handler, origin string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodOptions, "/users/profile", nil)
		r.Header.Set("Origin", origin)
		r.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		r.Header.Set("Access-Control-Request-Headers", "authorization")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	t.Run("any origin by default", func(t *testing.T) {
		w := preflight(CORS(nil)(next), "http://example.com")

		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		require.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	})

	t.Run("listed origin allowed", func(t *testing.T) {
		w := preflight(CORS([]string{"http://example.com"})(next), "http://example.com")

		require.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin rejected", func(t *testing.T) {
		w := preflight(CORS([]string{"http://example.com"})(next), "http://evil.com")

		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
