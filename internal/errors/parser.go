package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a classified storage error ready for the wire.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies raw gorm/driver errors into a code and a message that
// is safe to show a client. context names the operation, e.g. "create category".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Server error",
		}
	}

	errLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Postgres 23505 and SQLite "UNIQUE constraint failed"
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Referenced data is missing or still in use",
		}
	}

	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "bad connection") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Database is unavailable, please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Email is already in use",
		}
	}
	if strings.Contains(errLower, "categories") {
		return ErrorInfo{
			Code:    CategoryNameExists,
			Message: "A category with this name already exists",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Record already exists",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "review"):
		return "Review not found"
	case strings.Contains(contextLower, "message"):
		return "Message not found"
	case strings.Contains(contextLower, "notification"):
		return "Notification not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "Requested resource not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create, please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update, please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete, please try again later"
	}
	return "Server error, please try again later"
}

// ParseAndRespond classifies err and writes it with statusCode.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
