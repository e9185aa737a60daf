package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/picfeed/internal/errors"
	"github.com/zfogg/picfeed/internal/logger"
	"go.uber.org/zap"
)

// ExposeErrorDetails includes internal error text in 5xx bodies (development only)
var ExposeErrorDetails = false

// RespondWithAPIError sends a structured API error response: { error, code, field?, details? }
func RespondWithAPIError(c *gin.Context, apiErr *errors.APIError) {
	fields := []zap.Field{
		zap.String("code", string(apiErr.Code)),
		zap.String("message", apiErr.Message),
		zap.Int("status", apiErr.Status),
		zap.String("path", c.FullPath()),
	}
	if apiErr.Field != "" {
		fields = append(fields, zap.String("field", apiErr.Field))
	}

	if apiErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("API error", fields...)
	} else if apiErr.Status >= http.StatusBadRequest {
		logger.Log.Warn("API error", fields...)
	}

	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}

// RespondServerError logs err and sends a generic 500. The cause only reaches the
// client when ExposeErrorDetails is set.
func RespondServerError(c *gin.Context, err error, message string) {
	logger.Log.Error(message, zap.Error(err), zap.String("path", c.FullPath()))

	apiErr := errors.ServerError("")
	if ExposeErrorDetails && err != nil {
		apiErr = apiErr.WithDetails(message + ": " + err.Error())
	}
	RespondWithAPIError(c, apiErr)
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context, message ...string) {
	msg := "authentication required"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Unauthorized(msg))
}

// RespondNotFound sends a 404 Not Found response
func RespondNotFound(c *gin.Context, resource string) {
	RespondWithAPIError(c, errors.NotFound(resource))
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.BadRequest(message))
}

// RespondForbidden sends a 403 Forbidden response
func RespondForbidden(c *gin.Context, message ...string) {
	msg := "forbidden"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	RespondWithAPIError(c, errors.Forbidden(msg))
}

// RespondConflict sends a 409 Conflict response
func RespondConflict(c *gin.Context, message string) {
	RespondWithAPIError(c, errors.Conflict(message))
}

// RespondValidationError sends a 400 response naming the offending field
func RespondValidationError(c *gin.Context, field, message string) {
	RespondWithAPIError(c, errors.ValidationError(field, message))
}
