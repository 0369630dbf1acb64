package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"vitae-backend/pkg/auth"
)

// Authenticate validates the caller identity and stores it on the request
// context. Two paths are accepted:
//   - a Bearer token, validated with the configured JWT validator
//   - gateway-injected claims headers, when API Gateway's authorizer has
//     already validated the token upstream
//
// The gateway-headers path is only safe when the Lambda adapter sits in
// front and strips those headers from outside traffic, so it is gated on
// trustGatewayHeaders. On the plain HTTP entrypoint the headers are
// attacker-controlled and must be ignored. A nil validator disables the
// Bearer path.
func Authenticate(validator *auth.JWTValidator, trustGatewayHeaders bool, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if trustGatewayHeaders {
				if user := gatewayUser(r); user != nil {
					next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
					return
				}
			}

			token := extractBearerToken(r)
			if token == "" {
				respondUnauthorized(w, "Missing authentication token")
				return
			}
			if validator == nil {
				respondUnauthorized(w, "Token validation is not configured")
				return
			}

			user, err := validator.Validate(token)
			if err != nil {
				logger.Warn("Invalid token",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				respondUnauthorized(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// gatewayUser extracts the identity injected by the API Gateway authorizer.
// Callers must only consult it behind the Lambda adapter, which strips
// these headers from outside traffic before injecting its own.
func gatewayUser(r *http.Request) *auth.UserContext {
	if r.Header.Get("X-API-Gateway-Authorized") != "true" {
		return nil
	}
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return nil
	}
	return &auth.UserContext{
		UserID: userID,
		Email:  r.Header.Get("X-User-Email"),
	}
}

// extractBearerToken reads the token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    http.StatusUnauthorized,
	})
}
