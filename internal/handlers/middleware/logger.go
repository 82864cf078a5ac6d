package middleware

import (
	"net/http"
	"time"
)

type logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Response writer that remembers status and size written
type recordingWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	size, err := w.ResponseWriter.Write(p)
	w.size += size
	return size, err
}

func (w *recordingWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.status = statusCode
}

// Access log. Server errors logged as errors, client ones as warnings
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			log := l.Info
			switch {
			case rw.status >= http.StatusInternalServerError:
				log = l.Error
			case rw.status >= http.StatusBadRequest:
				log = l.Warn
			}

			log(
				"got HTTP request",
				"method", r.Method,
				"uri", r.RequestURI,
				"duration", time.Since(start),
				"status", rw.status,
				"size", rw.size,
			)
		})
	}
}
