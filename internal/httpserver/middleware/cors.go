package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/davidbz/atelier/internal/config"
)

// CORS handles Cross-Origin Resource Sharing using github.com/rs/cors.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{"X-Atelier-Cache", "X-Atelier-Fingerprint", "X-Request-Id", "X-Process-Time"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
