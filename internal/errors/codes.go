package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. The admin client maps these to messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH" // current password did not verify

	// ==================== Authorization (AUTHZ_) ====================
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationTooShort     = "VALIDATION_TOO_SHORT"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (CATALOG_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductImageMissing = "PRODUCT_IMAGE_REQUIRED"
	CategoryNotFound    = "CATEGORY_NOT_FOUND"
	CategoryNameExists  = "CATEGORY_NAME_EXISTS"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderEmpty             = "ORDER_EMPTY"
	OrderInvalidStatus     = "ORDER_INVALID_STATUS"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"

	// ==================== Messages (MESSAGE_) ====================
	MessageNotFound      = "MESSAGE_NOT_FOUND"
	MessageInvalidStatus = "MESSAGE_INVALID_STATUS"

	// ==================== Notifications (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"
	UploadNotConfigured   = "UPLOAD_NOT_CONFIGURED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API" // object storage and other upstream services
)
