package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the unified API response format.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Kind enumerates the failure classes the API distinguishes. Every error a
// service returns carries exactly one kind, and each kind maps to exactly
// one HTTP status at the handler boundary.
type Kind int

const (
	KindValidation      Kind = iota // missing/invalid input → 400
	KindUnauthenticated             // absent or bad credentials/token → 401
	KindForbidden                   // authenticated, wrong principal → 403
	KindNotFound                    // resource absent → 404
	KindConflict                    // duplicate email/membership → 409
	KindInternal                    // everything else → 500
)

func (k Kind) httpStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a structured application error: a failure class plus a
// human-readable message.
type AppError struct {
	Kind    Kind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Error constructors, one per failure class.

func NewValidation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{Kind: KindInternal, Message: msg}
}

// --- Gin response helpers ---

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Code: 0, Message: "ok", Data: data})
}

// Created sends a 201 Created response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Code: 0, Message: "created", Data: data})
}

// Error sends an error response. If err is an *AppError its kind decides
// the status; any other error is treated as an internal server error.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.Kind.httpStatus()
		c.JSON(status, Envelope{Code: status, Message: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	})
}

// Convenience responders used by middleware, where no service error exists.

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Envelope{Code: 400, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Envelope{Code: 401, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Envelope{Code: 403, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Envelope{Code: 404, Message: msg})
}
