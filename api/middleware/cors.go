package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Kiosks render a local web shell, so dev origins plus the hosted admin
// console are the only callers.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://admin.herbpoint.ca",
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Accept-Language", "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
