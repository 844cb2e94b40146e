package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/infosort/infosort/internal/auth"
)

const bearerPrefix = "Bearer "

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier *auth.TokenIssuer
}

// Auth returns a middleware that authenticates API requests.
//
// It reads the bearer token from the Authorization header, verifies the
// signature and expiry, and attaches the resolved identity to the request
// context. No database lookup happens here: user existence was validated
// once, at login time. Failures short-circuit with 401 before the handler.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "MISSING_TOKEN", "Authorization header missing or malformed")
				return
			}

			userID, err := cfg.Verifier.Verify(token)
			if err != nil {
				reason := "invalid_token"
				code := "INVALID_TOKEN"
				message := "Invalid bearer token"
				if errors.Is(err, auth.ErrExpiredToken) {
					reason = "token_expired"
					code = "TOKEN_EXPIRED"
					message = "Bearer token has expired"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, code, message)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), &auth.Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken reads the token from the Authorization header.
// The header must start with the literal "Bearer " scheme prefix.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", false
	}

	return token, true
}

// writeAuthError writes a 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
