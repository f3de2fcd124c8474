package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/atelier/internal/config"
	"github.com/davidbz/atelier/internal/httpserver/middleware"
	"github.com/davidbz/atelier/internal/observability"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := middleware.Chain(tag("outer"), tag("inner"))(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestTrace(t *testing.T) {
	t.Run("should inject ids into context and headers", func(t *testing.T) {
		var requestID, traceID string
		handler := middleware.Trace()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			requestID = observability.GetRequestID(r.Context())
			traceID = observability.GetTraceID(r.Context())
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, requestID)
		require.Equal(t, requestID, w.Header().Get("X-Request-Id"))
		require.Equal(t, traceID, w.Header().Get("X-Trace-Id"))
	})

	t.Run("should keep a caller supplied request id", func(t *testing.T) {
		handler := middleware.Trace()(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "req-from-client")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, "req-from-client", w.Header().Get("X-Request-Id"))
	})
}

func TestAccessLog(t *testing.T) {
	t.Run("should stamp process time on implicit status", func(t *testing.T) {
		w := httptest.NewRecorder()
		middleware.AccessLog()(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		elapsed, err := strconv.ParseFloat(w.Header().Get("X-Process-Time"), 64)
		require.NoError(t, err)
		require.GreaterOrEqual(t, elapsed, 0.0)
	})

	t.Run("should pass explicit status through", func(t *testing.T) {
		handler := middleware.AccessLog()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusTeapot, w.Code)
		require.NotEmpty(t, w.Header().Get("X-Process-Time"))
	})
}

func TestRateLimit(t *testing.T) {
	request := func(handler http.Handler, path, addr string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("should reject a client over its budget", func(t *testing.T) {
		handler := middleware.RateLimit(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2})(okHandler())

		require.Equal(t, http.StatusOK, request(handler, "/v1/cache/stats", "10.0.0.1:5000"))
		require.Equal(t, http.StatusOK, request(handler, "/v1/cache/stats", "10.0.0.1:5001"))
		require.Equal(t, http.StatusTooManyRequests, request(handler, "/v1/cache/stats", "10.0.0.1:5002"))

		// Another client has its own budget.
		require.Equal(t, http.StatusOK, request(handler, "/v1/cache/stats", "10.0.0.2:5000"))
	})

	t.Run("should never limit health checks", func(t *testing.T) {
		handler := middleware.RateLimit(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1})(okHandler())

		for range 5 {
			require.Equal(t, http.StatusOK, request(handler, "/health", "10.0.0.3:1"))
		}
	})

	t.Run("should pass everything when disabled", func(t *testing.T) {
		handler := middleware.RateLimit(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1})(okHandler())

		for range 5 {
			require.Equal(t, http.StatusOK, request(handler, "/v1/cache/stats", "10.0.0.4:1"))
		}
	})

	t.Run("should set retry after", func(t *testing.T) {
		handler := middleware.RateLimit(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1})(okHandler())
		request(handler, "/x", "10.0.0.5:1")

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.5:1"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusTooManyRequests, w.Code)
		require.Equal(t, "61", w.Header().Get("Retry-After"))
	})
}

func TestCORS(t *testing.T) {
	handler := middleware.CORS(&config.CORSConfig{
		AllowedOrigins: []string{"https://studio.example"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://studio.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, "https://studio.example", w.Header().Get("Access-Control-Allow-Origin"))
}
