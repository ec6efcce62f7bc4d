package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminTokenAuth protects the admin surface with a static bearer token.
// The expected token is injected at wiring time, never read from ambient
// environment inside the request path.
func AdminTokenAuth(expected string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if expected == "" {
			logAuthFailure(logger, c, http.StatusInternalServerError, "token_not_configured")
			writeAuthError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "admin token is not configured")
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logAuthFailure(logger, c, http.StatusUnauthorized, "missing_auth")
			writeAuthError(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logAuthFailure(logger, c, http.StatusUnauthorized, "invalid_auth_format")
			writeAuthError(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
			logAuthFailure(logger, c, http.StatusForbidden, "invalid_token")
			writeAuthError(c, http.StatusForbidden, "AUTH_INVALID", "invalid admin token")
			return
		}

		c.Next()
	}
}

func writeAuthError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}

func logAuthFailure(logger *zap.Logger, c *gin.Context, status int, reason string) {
	logger.Warn("admin auth failure",
		zap.Int("status", status),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()))
}
