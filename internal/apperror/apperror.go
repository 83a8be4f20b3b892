package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is the single error type that crosses service boundaries. Every
// externally visible failure carries a stable machine-readable code, the
// HTTP status it maps to, and a human-readable message. Cause is kept for
// logs only and never serialized.
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Stable error codes. These match the wire contract expected by existing
// clients, so changing one is a breaking change.
const (
	CodeMissingToken            = "MISSING_TOKEN"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeInvalidUser             = "INVALID_USER"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeRateLimitExceeded       = "RATE_LIMIT_EXCEEDED"
	CodeValidationError         = "VALIDATION_ERROR"
	CodeUserExists              = "USER_EXISTS"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeAccountDisabled         = "ACCOUNT_DISABLED"
	CodeInvalidCurrentPassword  = "INVALID_CURRENT_PASSWORD"
	CodeInvalidStatus           = "INVALID_STATUS"
	CodeConversationNotFound    = "CONVERSATION_NOT_FOUND"
	CodeNotFound                = "NOT_FOUND"
	CodeMissingPrompt           = "MISSING_PROMPT"
	CodeMissingText             = "MISSING_TEXT"
	CodeUnsupportedAnalysisType = "UNSUPPORTED_ANALYSIS_TYPE"
	CodeAIServiceUnavailable    = "AI_SERVICE_UNAVAILABLE"
	CodeAIServiceError          = "AI_SERVICE_ERROR"
	CodeInternalError           = "INTERNAL_ERROR"
)

// Constructors

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func Wrap(code string, status int, message string, cause error) *Error {
	return &Error{Code: code, Status: status, Message: message, Cause: cause}
}

func Unauthenticated(code, message string) *Error {
	return New(code, fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(CodeInsufficientPermissions, fiber.StatusForbidden, message)
}

func RateLimited(message string) *Error {
	return New(CodeRateLimitExceeded, fiber.StatusTooManyRequests, message)
}

func NotFound(code, message string) *Error {
	return New(code, fiber.StatusNotFound, message)
}

func Validation(message string) *Error {
	return New(CodeValidationError, fiber.StatusBadRequest, message)
}

func BadRequest(code, message string) *Error {
	return New(code, fiber.StatusBadRequest, message)
}

func Conflict(code, message string) *Error {
	return New(code, fiber.StatusConflict, message)
}

func ProviderUnavailable(cause error) *Error {
	return Wrap(CodeAIServiceUnavailable, fiber.StatusServiceUnavailable, "AI service temporarily unavailable", cause)
}

func ProviderRejected(cause error) *Error {
	return Wrap(CodeAIServiceError, fiber.StatusBadGateway, "AI service rejected the request", cause)
}

func Internal(cause error) *Error {
	return Wrap(CodeInternalError, fiber.StatusInternalServerError, "internal server error", cause)
}

// From extracts an *Error from err, wrapping unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
