package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates that the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected failure in a collaborator.
var ErrInternal = errors.New("internal error")

// ErrPartialUpdate indicates that a balance update touched only some of the affected accounts.
var ErrPartialUpdate = errors.New("partial balance update")

// ErrCompensationFailed indicates that an entry header could not be removed
// after its lines failed to persist, leaving an orphan header behind.
var ErrCompensationFailed = errors.New("compensation failed")

// ErrReportInput indicates an unsupported report type or a missing report date.
var ErrReportInput = errors.New("invalid report input")

// AppError carries an HTTP-ish status code alongside a wrapped error.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
