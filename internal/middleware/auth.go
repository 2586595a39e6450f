package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kiwari-pos/storefront/internal/auth"
)

type contextKey string

const credentialsKey contextKey = "credentials"

// MissingTokenMessage is what the customer sees when no token was sent.
const MissingTokenMessage = "No token found. Please login."

// Credentials replace the browser's stored token and userId.
type Credentials struct {
	Token  string
	UserID string
}

// Authenticate requires a valid bearer token and stores the caller's
// credentials in the request context.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": MissingTokenMessage})
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}

			creds := &Credentials{Token: parts[1], UserID: claims.UserID}
			ctx := context.WithValue(r.Context(), credentialsKey, creds)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CredentialsFromContext(ctx context.Context) *Credentials {
	creds, _ := ctx.Value(credentialsKey).(*Credentials)
	return creds
}

// WithCredentials attaches creds to ctx the way Authenticate does. Used by
// handler tests that mount routes without the middleware.
func WithCredentials(ctx context.Context, creds *Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey, creds)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
