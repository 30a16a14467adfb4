package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avelinof/linkup-be/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "jwt-linkup"

// Claims defines the JWT claims structure.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// TokenManager mints and validates session tokens. The signing key comes from
// configuration at construction time, not from ambient environment reads.
type TokenManager struct {
	key    []byte
	ttl    time.Duration
	secure bool
}

// NewTokenManager creates a TokenManager. secure controls the cookie's Secure
// flag and should be true whenever the client origin is served over HTTPS.
func NewTokenManager(secret string, ttl time.Duration, secure bool) *TokenManager {
	return &TokenManager{key: []byte(secret), ttl: ttl, secure: secure}
}

// Generate creates a new JWT for a given user.
func (tm *TokenManager) Generate(user models.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.key)
}

// Validate parses and validates a JWT string.
func (tm *TokenManager) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// SessionCookie wraps a signed token in the HTTP-only session cookie.
func (tm *TokenManager) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(tm.ttl),
		HttpOnly: true,
		Secure:   tm.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}

// ClearedSessionCookie returns an expired cookie that removes the session.
func (tm *TokenManager) ClearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   tm.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}

// Middleware protects routes, threading the validated claims through the
// request context.
func (tm *TokenManager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try the session cookie first; that is how the SPA talks to us
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				tokenStr = cookie.Value
			}

			// 2. Fall back to the Authorization header for non-browser clients
			if tokenStr == "" {
				authHeader := r.Header.Get("Authorization")
				if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			if tokenStr == "" {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}

			claims, err := tm.Validate(tokenStr)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the authenticated claims set by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}
