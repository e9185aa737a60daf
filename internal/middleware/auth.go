package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/auth"
	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/util"
	"go.uber.org/zap"
)

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// badCredentials reports whether err is the caller's fault. Anything else
// (the user store being down, say) is a server error, not a 401.
func badCredentials(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, auth.ErrMissingSubject)
}

// RequireAuth rejects requests without a valid IdP token with 401 and
// stores the resolved user under util.UserKey / util.UserIDKey
func RequireAuth(authenticator auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.RespondUnauthorized(c, "missing bearer token")
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !badCredentials(err) {
				util.RespondServerError(c, err, "failed to resolve user")
				return
			}
			logger.Log.Debug("Authentication failed", zap.Error(err), logger.WithIP(c.ClientIP()))
			util.RespondUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(util.UserIDKey, user.ID)
		c.Set(util.UserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the viewer when a valid token is present. Bad
// credentials degrade to an anonymous request; a failure to resolve a valid
// token is a 500 so viewer-specific fields are never silently dropped.
func OptionalAuth(authenticator auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			user, err := authenticator.Authenticate(c.Request.Context(), token)
			switch {
			case err == nil:
				c.Set(util.UserIDKey, user.ID)
				c.Set(util.UserKey, user)
			case !badCredentials(err):
				util.RespondServerError(c, err, "failed to resolve user")
				return
			}
		}
		c.Next()
	}
}
