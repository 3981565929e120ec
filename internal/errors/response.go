package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`   // code from codes.go
	Message string `json:"message"` // human readable
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shorthands for the common statuses.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Not authorized, no token"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, errorCode string, message string) {
	if message == "" {
		message = "Not authorized as admin"
	}
	RespondWithError(c, http.StatusForbidden, errorCode, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Server error, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field binding failures.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondWithValidationError answers 400 with the failing fields keyed by
// their JSON names.
func RespondWithValidationError(c *gin.Context, message string, fields map[string]string) {
	if message == "" {
		message = "Invalid input"
	}
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: message,
		Fields:  fields,
	})
}
