package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	request "vcardimport/pkg/platform/middleware/request"
)

// JWTValidator validates bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims are the claims the middleware needs from a validated token.
type JWTClaims struct {
	Subject  string
	ClientID string
}

// HeaderAPIKey carries a static API key for machine clients.
const HeaderAPIKey = "X-API-Key"

type contextKeySubject struct{}
type contextKeyClientID struct{}

// GetSubject retrieves the authenticated subject from the context.
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(contextKeySubject{}).(string)
	return subject
}

// GetClientID retrieves the authenticated client from the context.
func GetClientID(ctx context.Context) string {
	clientID, _ := ctx.Value(contextKeyClientID{}).(string)
	return clientID
}

// WithClaims injects authenticated identity into ctx.
func WithClaims(ctx context.Context, claims *JWTClaims) context.Context {
	ctx = context.WithValue(ctx, contextKeySubject{}, claims.Subject)
	return context.WithValue(ctx, contextKeyClientID{}, claims.ClientID)
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth accepts a bearer JWT, or an X-API-Key matching apiKeyHash
// (bcrypt) when a hash is configured.
func RequireAuth(validator JWTValidator, apiKeyHash []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			if key := r.Header.Get(HeaderAPIKey); key != "" && len(apiKeyHash) > 0 {
				if err := bcrypt.CompareHashAndPassword(apiKeyHash, []byte(key)); err != nil {
					logger.WarnContext(ctx, "unauthorized access - invalid api key",
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
					return
				}
				ctx = WithClaims(ctx, &JWTClaims{Subject: "api-key", ClientID: "api-key"})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || validator == nil {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}
