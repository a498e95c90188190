package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/crucial707/quote-api/internal/auth"
	"github.com/crucial707/quote-api/internal/metrics"
)

type key string

const identityKey key = "identity"

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// JWTMiddleware lets a request through only with a valid "Authorization: Bearer <token>"
// header. The verified identity is attached to the request context.
func JWTMiddleware(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, "missing_header", "missing authorization header")
				return
			}

			scheme, tokenStr, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				reject(w, "wrong_scheme", "invalid authorization scheme")
				return
			}

			id, err := v.Verify(tokenStr)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					reject(w, "expired", "token expired")
					return
				}
				reject(w, "invalid", "invalid token")
				return
			}

			reportIdentity(r.Context(), id.UserID)
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the identity attached by JWTMiddleware.
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// GetUserID returns the authenticated user id, or "" outside protected routes.
func GetUserID(ctx context.Context) string {
	id, _ := GetIdentity(ctx)
	return id.UserID
}

// WithIdentity returns a copy of ctx carrying id, as JWTMiddleware would.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func reject(w http.ResponseWriter, reason, message string) {
	metrics.RecordTokenRejection(reason)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
