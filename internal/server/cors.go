package server

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// corsHandler lets the configured browser origins call the API. With no
// origins configured no CORS headers are sent.
func (s *Server) corsHandler() func(http.Handler) http.Handler {
	if len(s.origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
}

func (s *Server) allowedOrigin(origin string) bool {
	return slices.Contains(s.origins, "*") || slices.Contains(s.origins, origin)
}

// checkOrigin applies the CORS origins to websocket upgrades. Requests
// without an Origin header are not from a browser and are allowed.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.allowedOrigin(origin)
}
