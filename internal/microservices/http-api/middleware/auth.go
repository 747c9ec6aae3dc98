package middleware

import (
	"net/http"
	"strings"

	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Keys under which the authenticated identity is stored on the gin context.
const (
	ClaimsKey   = "claims"
	UserIDKey   = "userID"
	UsernameKey = "username"
	RoleKey     = "role"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// The token comes from the Authorization header, or from the token query
// parameter for websocket upgrades where browsers cannot set headers.
func AuthMiddleware(verifier service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := verifier.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth records the caller's identity when a valid token is present
// and lets anonymous or badly authenticated requests through untouched.
func OptionalAuth(verifier service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := extractToken(c); err == nil {
			if claims, err := verifier.ValidateToken(tokenString); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests that OptionalAuth did not authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserIDKey) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireRole checks if the user has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role not found in token"})
			return
		}
		if role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "insufficient permissions",
				"required": requiredRole,
			})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

const (
	errMissingToken tokenError = "missing authorization header"
	errBadHeader    tokenError = "invalid authorization header format"
)

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if q := c.Query("token"); q != "" {
			return q, nil
		}
		return "", errMissingToken
	}

	// format: "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errBadHeader
	}
	return parts[1], nil
}

func setIdentity(c *gin.Context, claims *service.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(UserIDKey, claims.UserID)
	c.Set(UsernameKey, claims.Username)
	c.Set(RoleKey, claims.Role)
}
