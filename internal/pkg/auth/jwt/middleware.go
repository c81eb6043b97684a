package jwt

import (
	"context"
	"net/http"
	"strings"

	"doceasy/internal/pkg/logx"
)

// Context key type for storing the verified identity, preventing collisions
// with other packages.
type contextKey string

const (
	// ContextIdentityKey is the key under which the verified Identity is
	// stored in the request context.
	ContextIdentityKey contextKey = "auth_identity"
)

// IdentityExtractorMiddleware extracts and validates a bearer JWT from the
// Authorization header and injects the Identity into the request context.
// It does NOT reject the request on a missing or invalid token; the caller is
// treated as anonymous and individual handlers decide whether that suffices.
func IdentityExtractorMiddleware(verifier *Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.Verify(parts[1])
			if err != nil {
				logx.Warn("Invalid or expired JWT provided, treating as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextIdentityKey, &identity)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentityFromContext extracts the verified Identity from the request
// context. A nil return means the caller is anonymous.
func GetIdentityFromContext(r *http.Request) *Identity {
	identity, ok := r.Context().Value(ContextIdentityKey).(*Identity)

	if !ok {
		return nil
	}

	return identity
}
