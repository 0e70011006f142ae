package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrValidation         = errors.New("validation failed")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrOrderRejected      = errors.New("order rejected")
	ErrStoreRead          = errors.New("store read failed")
	ErrInternal           = errors.New("internal error")
)

// AppError represents a structured application error with HTTP status mapping.
// Fields carries per-field detail for validation failures.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Status  int               `json:"-"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// InsufficientStock creates a 409 error for a stock ceiling violation.
// The cart is always left unchanged when this is returned.
func InsufficientStock(productName string) *AppError {
	return &AppError{
		Code:    "INSUFFICIENT_STOCK",
		Message: fmt.Sprintf("not enough stock available for %s", productName),
		Status:  http.StatusConflict,
		Err:     ErrInsufficientStock,
	}
}

// Validation creates a 400 error listing the fields that failed validation.
func Validation(fields map[string]string) *AppError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: "missing or invalid fields: " + strings.Join(names, ", "),
		Fields:  fields,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// CatalogUnavailable creates a 503 error for a failed catalog fetch.
func CatalogUnavailable(err error) *AppError {
	return &AppError{
		Code:    "CATALOG_UNAVAILABLE",
		Message: "product catalog is temporarily unavailable",
		Status:  http.StatusServiceUnavailable,
		Err:     fmt.Errorf("%w: %w", ErrCatalogUnavailable, err),
	}
}

// OrderRejected creates a 502 error for a failed order submission.
// The cart is kept intact so the caller may retry.
func OrderRejected(err error) *AppError {
	return &AppError{
		Code:    "ORDER_REJECTED",
		Message: "order submission failed, please try again",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrOrderRejected, err),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrOrderRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
