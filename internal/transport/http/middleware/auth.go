package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"krishiconnect/internal/httputil"
	"krishiconnect/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// IdentityKey is the context key for the resolved caller
	IdentityKey contextKey = "identity"
)

// Identity is the caller resolved from a verified token.
// Actor feeds the core operations; Author is stamped on new posts and comments.
type Identity struct {
	Actor  model.Actor
	Author model.AuthorInfo
}

// AuthMiddleware creates a middleware that validates JWT tokens
// Checks Authorization header first (for mobile), then falls back to cookie (for web)
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return authMiddleware(jwtSecret, true)
}

// OptionalAuthMiddleware resolves the caller when a valid token is present and
// lets anonymous requests through otherwise.
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return authMiddleware(jwtSecret, false)
}

func authMiddleware(jwtSecret string, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				if required {
					httputil.WriteUnauthorized(w, "Missing authentication token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			identity, err := ParseIdentity(tokenString, jwtSecret)
			if err != nil {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				if errors.Is(err, jwt.ErrTokenExpired) {
					httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Access token has expired")
					return
				}
				httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid authentication token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose actor role is not one of roles.
// Must run after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentityFromContext(r.Context())
			if !ok {
				httputil.WriteUnauthorized(w, "Authentication required")
				return
			}
			for _, role := range roles {
				if identity.Actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httputil.WriteForbidden(w, "Insufficient role")
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	// 1. Authorization header (mobile apps)
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	// 2. Cookie (web browsers)
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// ParseIdentity verifies an HMAC-signed token and maps its claims.
// sub, name and role are required; avatar, location and verified are optional
// profile claims.
func ParseIdentity(tokenString, jwtSecret string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || (role != model.RoleAdmin && !model.IsValidRole(role)) {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}

	avatar, _ := claims["avatar"].(string)
	location, _ := claims["location"].(string)
	verified, _ := claims["verified"].(bool)

	return Identity{
		Actor: model.Actor{ID: sub, Name: name, Role: role},
		Author: model.AuthorInfo{
			ID:       sub,
			Name:     name,
			Avatar:   avatar,
			Location: location,
			Verified: verified,
			Role:     role,
		},
	}, nil
}

// GetIdentityFromContext extracts the caller from the request context.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	return identity, ok
}

// GetActorFromContext returns the caller's actor, or nil for anonymous requests.
func GetActorFromContext(ctx context.Context) *model.Actor {
	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		return nil
	}
	actor := identity.Actor
	return &actor
}
