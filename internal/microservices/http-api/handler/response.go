package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"talehub/internal/microservices/http-api/middleware"
	"talehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// RequestTimeout bounds the service call made by each handler.
var RequestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), RequestTimeout)
}

// respondError maps typed service errors onto their status code. Anything
// else is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var httpErr service.HTTPError
	if errors.As(err, &httpErr) {
		c.JSON(httpErr.StatusCode(), gin.H{"error": httpErr.Error()})
		return
	}
	slog.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// currentUser returns the authenticated user id. Routes behind
// middleware.RequireAuth always have one.
func currentUser(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return userID, true
}

// queryInt parses an integer query parameter. Malformed values read as 0 and
// the service substitutes its default.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func protect(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(mw)+1)
	chain = append(chain, mw...)
	return append(chain, h)
}
