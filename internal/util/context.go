package util

import (
	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/errors"
	"github.com/zfogg/picfeed/internal/models"
)

// Context keys set by the auth middleware
const (
	UserIDKey = "user_id"
	UserKey   = "user"
)

// GetUserFromContext extracts the authenticated user from the Gin context.
// If the user is not authenticated, it automatically responds with 401 Unauthorized.
func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get(UserKey)
	if !exists {
		RespondUnauthorized(c)
		return nil, false
	}
	userPtr, ok := user.(*models.User)
	if !ok {
		RespondWithAPIError(c, errors.ServerError("invalid user data in context"))
		return nil, false
	}
	return userPtr, true
}

// GetUserIDFromContext extracts the user ID from the Gin context.
// If the user is not authenticated, it automatically responds with 401 Unauthorized.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := GetOptionalUserID(c)
	if !ok {
		RespondUnauthorized(c)
		return "", false
	}
	return userID, true
}

// GetOptionalUserID returns the viewer's ID on routes where authentication is optional
func GetOptionalUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		return "", false
	}
	return userIDStr, true
}
