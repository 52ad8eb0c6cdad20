package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

const userKey = "user"

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware resolves the bearer token to a user and stores it in the
// context for handlers.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			logger.Debugf("[Auth] Missing Authorization header - Path: %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		token, ok := BearerToken(c)
		if !ok {
			logger.Debugf("[Auth] Invalid header format - Path: %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		user, err := authService.ResolveToken(c.Request.Context(), token)
		if err != nil || user == nil {
			logger.Debugf("[Auth] Invalid token - Path: %s, Error: %v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequestLogger logs every request with its status and duration.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			logger.Errorf("[HTTP] %s %s %d - %v", method, path, status, duration)
		case status >= 400:
			logger.Warnf("[HTTP] %s %s %d - %v", method, path, status, duration)
		default:
			logger.Debugf("[HTTP] %s %s %d - %v", method, path, status, duration)
		}

		for _, e := range c.Errors {
			logger.Errorf("[HTTP] %s %s: %v", method, path, e.Err)
		}
	}
}

// GetUser returns the authenticated user, or nil.
func GetUser(c *gin.Context) *repository.User {
	v, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := v.(*repository.User)
	return user
}

// RequireUser writes 401 and returns false when no user is authenticated.
func RequireUser(c *gin.Context) (*repository.User, bool) {
	user := GetUser(c)
	if user == nil {
		logger.Debugf("[Auth] User not authenticated - Path: %s", c.Request.URL.Path)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	return user, true
}
