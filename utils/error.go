package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPError is the single error kind that reaches the wire with its own status.
type HTTPError struct {
	Status  int
	Message string
	Details any
}

func (e *HTTPError) Error() string {
	return e.Message
}

// WithDetails returns a copy of e carrying details.
func (e *HTTPError) WithDetails(details any) *HTTPError {
	cp := *e
	cp.Details = details
	return &cp
}

func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

func BadRequest(message string) *HTTPError   { return NewHTTPError(http.StatusBadRequest, message) }
func Unauthorized(message string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, message) }
func Forbidden(message string) *HTTPError    { return NewHTTPError(http.StatusForbidden, message) }
func NotFound(message string) *HTTPError     { return NewHTTPError(http.StatusNotFound, message) }
func Conflict(message string) *HTTPError     { return NewHTTPError(http.StatusConflict, message) }

func TooManyRequests() *HTTPError {
	return NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded.")
}

func MethodNotAllowed(method string) *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed.", method))
}

// Internal hides the cause from the caller; the cause is only logged.
func Internal() *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, "Internal server error.")
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details"`
}

// Envelope wraps every response body.
type Envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// RespondOK writes a success envelope.
func RespondOK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// RespondError writes the failure envelope for err and aborts the chain.
// Errors that are not *HTTPError become a generic 500.
func RespondError(c *gin.Context, err error) {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		zap.L().Error("unhandled_error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		httpErr = Internal()
	} else if httpErr.Status >= http.StatusInternalServerError {
		zap.L().Error("internal_error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	c.AbortWithStatusJSON(httpErr.Status, Envelope{
		Success: false,
		Error:   &ErrorResponse{Message: httpErr.Message, Details: httpErr.Details},
	})
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.L().Error("Unhandled panic", zap.Any("error", rec))
				RespondError(c, Internal())
			}
		}()
		c.Next()
	}
}

// NoMethodHandler answers requests whose path exists under another method.
func NoMethodHandler(c *gin.Context) {
	RespondError(c, MethodNotAllowed(c.Request.Method))
}

// NoRouteHandler answers unknown paths.
func NoRouteHandler(c *gin.Context) {
	RespondError(c, NotFound("Route not found."))
}
