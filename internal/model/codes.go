package model

// Error codes for HTTP responses
const (
	CodeTokenExpired     = "TOKEN_EXPIRED"
	CodeTokenInvalid     = "TOKEN_INVALID"
	CodeInvalidReason    = "INVALID_REASON"
	CodeAlreadyReviewed  = "ALREADY_REVIEWED"
	CodeContentNotFound  = "CONTENT_NOT_FOUND"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
	CodeValidation       = "VALIDATION_FAILED"
)
