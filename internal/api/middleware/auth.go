package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/flightroutes/flightroutes/internal/api/models"
	"github.com/flightroutes/flightroutes/internal/auth"
)

// operatorKey is the context key for the authenticated operator claims.
type operatorKey struct{}

// Auth creates authentication middleware that validates JWT bearer tokens.
func Auth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract bearer token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, r, "missing authorization header")
				return
			}

			// Check for Bearer prefix (case-insensitive)
			const bearerPrefix = "Bearer "
			if len(authHeader) < len(bearerPrefix) ||
				!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
				writeUnauthorized(w, r, "invalid authorization header format")
				return
			}

			tokenString := authHeader[len(bearerPrefix):]
			if tokenString == "" {
				writeUnauthorized(w, r, "missing bearer token")
				return
			}

			// Validate the token
			claims, err := jwtService.ValidateAccessToken(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrAccessTokenExpired):
					writeUnauthorized(w, r, "access token has expired")
				case errors.Is(err, auth.ErrInvalidAccessToken):
					writeUnauthorized(w, r, "invalid access token")
				default:
					writeUnauthorized(w, r, "authentication failed")
				}
				return
			}

			// Add operator claims to context
			ctx := context.WithValue(r.Context(), operatorKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates middleware that rejects requests whose authenticated
// operator does not hold one of the given roles. It must run after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetOperator(r.Context())
			if claims == nil {
				writeUnauthorized(w, r, "authentication required")
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			traceID := GetRequestID(r.Context())
			problem := models.NewForbidden(traceID, "insufficient role for this operation")
			problem.Instance = r.URL.Path
			problem.Write(w)
		})
	}
}

// writeUnauthorized writes a 401 Unauthorized response.
// This is implemented directly here to avoid import cycle with response package.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	traceID := GetRequestID(r.Context())
	problem := models.NewUnauthorized(traceID, detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// GetOperator retrieves the authenticated operator claims from the context.
// Returns nil if not authenticated.
func GetOperator(ctx context.Context) *auth.JWTClaims {
	if claims, ok := ctx.Value(operatorKey{}).(*auth.JWTClaims); ok {
		return claims
	}
	return nil
}

// GetUsername retrieves the authenticated operator's username from the
// context. Returns an empty string if not authenticated.
func GetUsername(ctx context.Context) string {
	if claims := GetOperator(ctx); claims != nil {
		return claims.Username
	}
	return ""
}
