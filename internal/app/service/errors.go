package service

import (
	"errors"
	"fmt"
)

// Not found
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")
)

// Validation
var (
	ErrEmptyOrder              = errors.New("no order items")
	ErrInvalidOrderStatus      = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("order status transition not allowed")
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
	ErrInvalidMessageStatus    = errors.New("invalid message status")
	ErrProductImageRequired    = errors.New("at least one product image is required")
)

// Auth and conflicts
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrCategoryNameExists = errors.New("category name already exists")
	ErrRegistrationClosed = errors.New("registration requires an admin")
)

// ValidationReason narrows why a field was rejected.
type ValidationReason int

const (
	ReasonInvalid ValidationReason = iota
	ReasonOutOfRange
	ReasonTooShort
)

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Field   string
	Message string
	Reason  ValidationReason
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func newRangeError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Reason: ReasonOutOfRange}
}

func newTooShortError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Reason: ReasonTooShort}
}

// IsValidation reports whether err should be answered with 400.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, target := range []error{
		ErrEmptyOrder,
		ErrInvalidOrderStatus,
		ErrInvalidStatusTransition,
		ErrInvalidRating,
		ErrInvalidMessageStatus,
		ErrProductImageRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
