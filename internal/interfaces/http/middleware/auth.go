package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/contable/internal/infrastructure/auth"
	"github.com/erp/contable/internal/infrastructure/logger"
	"github.com/erp/contable/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey    = "jwt_claims"
	UserIDKey    = "user_id"
	RoleKey      = "role"
	bearerPrefix = "Bearer "
)

// TokenVerifier validates an access token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	Verifier TokenVerifier
	// SkipPaths are exact paths served without a token
	SkipPaths []string
	// SkipPathPrefixes are path prefixes served without a token
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// Auth verifies the bearer token and stores its claims on the context.
// Tenant resolution is left to Tenant, which prefers the claim.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range cfg.SkipPaths {
			if path == p {
				c.Next()
				return
			}
		}
		for _, p := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing bearer token")
			return
		}

		claims, err := cfg.Verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			log.Warn("JWT authentication failed",
				zap.Error(err),
				zap.String("path", path),
				zap.String("request_id", GetRequestID(c)),
			)
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithError(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortWithError(c, dto.ErrCodeUnauthorized, "Invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// RequireWrite rejects mutating requests from read-only roles. Requests
// without claims pass: they only exist when auth is disabled.
func RequireWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		claims := GetClaims(c)
		if claims != nil && !claims.CanWrite() {
			abortWithError(c, dto.ErrCodeForbidden, "Role "+claims.Role+" is read-only")
			return
		}
		c.Next()
	}
}

// GetClaims returns the verified claims, or nil when the request was not authenticated
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user, or nil
func GetUserID(c *gin.Context) *uuid.UUID {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return nil
	}
	return &id
}
