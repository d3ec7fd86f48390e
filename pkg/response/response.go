package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Response represents a standardized API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents an error response
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeBidTooLow         = "BID_TOO_LOW"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
)

// Handle processes the error and returns the appropriate response.
// Handlers that need domain-specific mappings do their own dispatch
// with ErrorWithCode before falling back to this.
func Handle(c *gin.Context, data interface{}, err error) {
	if err == nil {
		Success(c, data)
		return
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "Resource not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Conflict(c, "Resource already exists")
	default:
		InternalError(c, "An unexpected error occurred")
	}
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	status := http.StatusOK
	if c.Request.Method == "POST" {
		status = http.StatusCreated
	}

	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// ErrorWithCode sends a failure response with an explicit status and
// error code
func ErrorWithCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusConflict, ErrCodeConflict, message)
}
