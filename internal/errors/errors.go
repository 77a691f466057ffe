package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeGradeType        = "GRADE_TYPE"
	ErrCodeGradeRange       = "GRADE_RANGE"
	ErrCodeAlreadyScheduled = "ALREADY_SCHEDULED"
	ErrCodeNotDue           = "NOT_DUE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "GRADE_RANGE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewGradeTypeError creates a new GRADE_TYPE error for a grade value that is
// not an integral number
func NewGradeTypeError(value interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeGradeType,
		Message: fmt.Sprintf("grade must be an integer, got %v", value),
		Status:  http.StatusBadRequest,
	}
}

// NewGradeRangeError creates a new GRADE_RANGE error for an integer grade
// outside the 0-5 scale
func NewGradeRangeError(value int) *AppError {
	return &AppError{
		Code:    ErrCodeGradeRange,
		Message: fmt.Sprintf("grade must be between 0 and 5, got %d", value),
		Status:  http.StatusBadRequest,
	}
}

// NewAlreadyScheduledError creates a new ALREADY_SCHEDULED error for a card
// that already has a review record for the user
func NewAlreadyScheduledError(userID, cardID int64) *AppError {
	return &AppError{
		Code:    ErrCodeAlreadyScheduled,
		Message: fmt.Sprintf("card %d is already scheduled for user %d", cardID, userID),
		Status:  http.StatusConflict,
	}
}

// NewNotDueError creates a new NOT_DUE error for a review attempted before
// the card's review date
func NewNotDueError(cardID int64, reviewDate string) *AppError {
	return &AppError{
		Code:    ErrCodeNotDue,
		Message: fmt.Sprintf("card %d is not due until %s", cardID, reviewDate),
		Status:  http.StatusConflict,
	}
}

// HasCode reports whether err is an *AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
