package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies failures surfaced to API callers.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindConflict     ErrorKind = "conflict"
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindUpstream     ErrorKind = "upstream"
)

// AppError carries an HTTP status alongside the message returned to the client.
type AppError struct {
	Kind    ErrorKind
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidInput reports a request that failed validation.
func InvalidInput(msg string) error {
	return &AppError{Kind: KindInvalidInput, Code: http.StatusBadRequest, Message: msg}
}

// Conflict reports a request that collides with existing state. The public API answers 400.
func Conflict(msg string) error {
	return &AppError{Kind: KindConflict, Code: http.StatusBadRequest, Message: msg}
}

func NotFound(msg string) error {
	return &AppError{Kind: KindNotFound, Code: http.StatusNotFound, Message: msg}
}

func Unauthorized(msg string) error {
	return &AppError{Kind: KindUnauthorized, Code: http.StatusUnauthorized, Message: msg}
}

// Upstream wraps a document store or asset store failure on the primary write path.
func Upstream(msg string, err error) error {
	return &AppError{Kind: KindUpstream, Code: http.StatusInternalServerError, Message: msg, Err: err}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// StatusCode maps any error to the HTTP status it should produce.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message safe to show to clients.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal Server Error"
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response derived from err.
func JSONError(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": PublicMessage(err), "detail": PublicMessage(err)})
}
