package web

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/splitdeck/splitdeck/internal/requestctx"
)

// withAuth requires a Bearer token signed with the server's JWT secret
// and puts the subject claim on the request context as the actor ID.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims := jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
			return s.jwtSecret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.Subject == "" {
			respondError(w, http.StatusUnauthorized, "token has no subject")
			return
		}

		ctx := requestctx.WithActorID(r.Context(), claims.Subject)
		next(w, r.WithContext(ctx))
	}
}

// withAPIKey guards the integration feed with a static key delivered in
// the X-API-Key header. When no key is configured the feed is disabled.
func (s *Server) withAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.integrationAPIKey == "" {
			respondError(w, http.StatusNotFound, "integration feed is not configured")
			return
		}
		key := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.integrationAPIKey)) != 1 {
			respondError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next(w, r)
	}
}
