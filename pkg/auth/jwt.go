package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vitae-backend/pkg/common"
	pkgerrors "vitae-backend/pkg/errors"
)

// UserContext carries the authenticated caller identity extracted from a
// token issued by the external identity provider.
type UserContext struct {
	UserID string
	Email  string
}

// JWTConfig configures token validation
type JWTConfig struct {
	SigningMethod string
	SecretKey     string
	Issuer        string
	Audience      []string
}

// JWTValidator validates bearer tokens
type JWTValidator struct {
	config JWTConfig
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}
	if config.SigningMethod == "" {
		config.SigningMethod = "HS256"
	}
	return &JWTValidator{config: config}, nil
}

// Validate parses and validates a token string and returns the user context
func (v *JWTValidator) Validate(tokenString string) (*UserContext, error) {
	claims := jwt.MapClaims{}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.config.SigningMethod}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.config.Issuer))
	}
	if len(v.config.Audience) > 0 {
		parserOpts = append(parserOpts, jwt.WithAudience(v.config.Audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.config.SecretKey), nil
	}, parserOpts...)
	if err != nil {
		return nil, pkgerrors.NewUnauthorizedError("invalid token").WithCause(err)
	}
	if !token.Valid {
		return nil, pkgerrors.NewUnauthorizedError("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, pkgerrors.NewUnauthorizedError("token missing subject")
	}
	email, _ := claims["email"].(string)

	return &UserContext{UserID: sub, Email: email}, nil
}

// WithUser stores the user context on the request context
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return common.WithUserID(ctx, user.UserID)
}

// GetUserFromContext extracts the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	userID, ok := common.GetUserID(ctx)
	if !ok || userID == "" {
		return nil, pkgerrors.NewUnauthorizedError("no authenticated user in context")
	}
	return &UserContext{UserID: userID}, nil
}
