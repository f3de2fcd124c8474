package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/davidbz/atelier/internal/observability"
)

// statusRecorder captures the status code and stamps X-Process-Time before the
// headers are flushed.
type statusRecorder struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = status
	r.Header().Set("X-Process-Time", strconv.FormatFloat(time.Since(r.start).Seconds(), 'f', 4, 64))
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// AccessLog logs each request with its status and duration, and reports the duration
// in the X-Process-Time response header.
func AccessLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, start: time.Now(), status: http.StatusOK}
			logger := observability.FromContext(r.Context())

			logger.Info("request started",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(rec, r)

			logger.Info("request completed",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.Int("status", rec.status),
				observability.Duration("duration", time.Since(rec.start)))
		})
	}
}
