package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"cvtheque-backend/config"
	"cvtheque-backend/internal/delivery/http/response"
	"cvtheque-backend/internal/domain"
	"cvtheque-backend/pkg/auth"
	"cvtheque-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and loads identity into the
// gin context. Roles come straight from the token's "roles" claim; the
// identity provider is the source of truth, there is no local user table.
func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		// 1. Try to get token from Header
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			// 2. Try to get token from Cookie
			cookie, err := c.Cookie("auth_token")
			if err == nil && cookie != "" {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
				// HS256 - Use Secret
				if cfg.AuthJWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but AUTH_JWT_SECRET is not configured")
				}
				return []byte(cfg.AuthJWTSecret), nil
			}

			if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
				// RS256 - Use JWKS
				return jwksProvider.KeyFunc(token)
			}

			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		})

		if err != nil || !token.Valid {
			logger.Log.Warn("Token validation failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		roles := extractRoles(claims)

		if sub == "" {
			response.Error(c, http.StatusUnauthorized, "Token is missing a subject", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), sub)
		c.Set(string(domain.KeyUserEmail), email)
		c.Set(string(domain.KeyUserRoles), roles)

		// Handlers pass c.Request.Context() down to the usecases, so the
		// identity must live on the request context too, not only in gin's
		// per-request key map.
		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, domain.KeyUserID, sub)
		ctx = context.WithValue(ctx, domain.KeyUserEmail, email)
		ctx = context.WithValue(ctx, domain.KeyUserRoles, roles)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractRoles reads the "roles" claim, which JSON decoding gives us as
// []interface{}. A missing claim means an authenticated user with no roles.
func extractRoles(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"].([]interface{})
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok && s != "" {
			roles = append(roles, s)
		}
	}
	return roles
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// Usecases enforce the same rule; this keeps unauthorized traffic out of
// the handlers entirely.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesVal, exists := c.Get(string(domain.KeyUserRoles))
		if !exists {
			response.Error(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}
		roles, _ := rolesVal.([]string)
		for _, r := range roles {
			if r == domain.RoleAdmin {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "Admin access required", nil)
		c.Abort()
	}
}
