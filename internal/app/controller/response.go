package controller

import (
	stderrors "errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/internal/errors"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
)

type serviceErrorMapping struct {
	target  error
	status  int
	code    string
	message string // empty: use err.Error()
}

var serviceErrors = []serviceErrorMapping{
	{service.ErrProductNotFound, http.StatusNotFound, errors.ProductNotFound, "Product not found"},
	{service.ErrCategoryNotFound, http.StatusNotFound, errors.CategoryNotFound, "Category not found"},
	{service.ErrOrderNotFound, http.StatusNotFound, errors.OrderNotFound, "Order not found"},
	{service.ErrReviewNotFound, http.StatusNotFound, errors.ReviewNotFound, "Review not found"},
	{service.ErrMessageNotFound, http.StatusNotFound, errors.MessageNotFound, "Message not found"},
	{service.ErrNotificationNotFound, http.StatusNotFound, errors.NotificationNotFound, "Notification not found"},
	{service.ErrUserNotFound, http.StatusNotFound, errors.ResourceNotFound, "User not found"},

	{service.ErrEmptyOrder, http.StatusBadRequest, errors.OrderEmpty, "No order items"},
	{service.ErrInvalidOrderStatus, http.StatusBadRequest, errors.OrderInvalidStatus, ""},
	{service.ErrInvalidStatusTransition, http.StatusBadRequest, errors.OrderInvalidTransition, ""},
	{service.ErrInvalidRating, http.StatusBadRequest, errors.ReviewInvalidRating, "Rating must be between 1 and 5"},
	{service.ErrInvalidMessageStatus, http.StatusBadRequest, errors.MessageInvalidStatus, ""},
	{service.ErrProductImageRequired, http.StatusBadRequest, errors.ProductImageMissing, "At least one product image is required"},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, errors.AuthInvalidCredentials, "Invalid email or password"},
	{service.ErrIncorrectPassword, http.StatusUnauthorized, errors.AuthPasswordMismatch, "Invalid current password"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, errors.AuthTokenRevoked, "Not authorized, token revoked"},
	{service.ErrRegistrationClosed, http.StatusForbidden, errors.AuthzAdminOnly, "Only an admin can register new users"},
	{service.ErrEmailAlreadyExists, http.StatusConflict, errors.AuthEmailAlreadyExists, "User already exists"},
	{service.ErrCategoryNameExists, http.StatusConflict, errors.CategoryNameExists, "Category name already exists"},
}

var validationCodes = map[service.ValidationReason]string{
	service.ReasonInvalid:    errors.ValidationInvalidInput,
	service.ReasonOutOfRange: errors.ValidationInvalidRange,
	service.ReasonTooShort:   errors.ValidationTooShort,
}

func init() {
	// Binding failures name fields the way clients send them.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func writeError(c *gin.Context, status int, code, message string) {
	switch status {
	case http.StatusBadRequest:
		errors.BadRequest(c, code, message)
	case http.StatusForbidden:
		errors.Forbidden(c, code, message)
	case http.StatusNotFound:
		errors.NotFound(c, code, message)
	case http.StatusConflict:
		errors.Conflict(c, code, message)
	default:
		errors.RespondWithError(c, status, code, message)
	}
}

// respondError writes the response for a service error. Unknown errors are
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	for _, m := range serviceErrors {
		if stderrors.Is(err, m.target) {
			message := m.message
			if message == "" {
				message = err.Error()
			}
			log.Warn(action+" failed", map[string]interface{}{
				"error":  err.Error(),
				"status": m.status,
			})
			writeError(c, m.status, m.code, message)
			return
		}
	}

	var ve *service.ValidationError
	if stderrors.As(err, &ve) {
		log.Warn(action+" rejected", map[string]interface{}{
			"field": ve.Field,
			"error": ve.Message,
		})
		code, ok := validationCodes[ve.Reason]
		if !ok {
			code = errors.ValidationInvalidInput
		}
		errors.BadRequest(c, code, ve.Error())
		return
	}

	log.Error(action+" failed", err)
	errors.InternalError(c, "")
}

// bindJSON binds the request body and answers 400 on failure. Binding-tag
// failures list each offending field and the rule it broke.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		errors.RespondWithValidationError(c, "Invalid request data", fields)
		return false
	}
	errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data: "+err.Error())
	return false
}

// parseIDParam reads a positive numeric path parameter and answers 400 otherwise.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func messageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}
