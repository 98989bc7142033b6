// Package apperror defines the typed errors that cross the core's boundary:
// validation failures and stale references. Backend/transport failures never
// become AppErrors; they are absorbed by the advice engine.
package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Status  int    `json:"status"`
	Details any    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func BadRequest(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: fiber.StatusBadRequest}
}

func NotFound(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: fiber.StatusNotFound}
}

func Conflict(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: fiber.StatusConflict}
}

// WithDetails attaches structured context (e.g. valid categories, field
// errors) to the response payload.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// From unwraps err into an *AppError when possible.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
