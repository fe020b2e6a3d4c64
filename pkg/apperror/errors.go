package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code.
// Reason is a stable machine-readable identifier; two AppErrors match under
// errors.Is when their reasons are equal.
type AppError struct {
	Code    int          `json:"code"`
	Reason  string       `json:"reason,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is reports whether target carries the same reason.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || e.Reason == "" {
		return false
	}
	return e.Reason == t.Reason
}

// WithMessage returns a copy of the error with a different message and the same reason.
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{Code: e.Code, Reason: e.Reason, Message: message, Errors: e.Errors}
}

// Reasons
const (
	ReasonNotFound                = "NOT_FOUND"
	ReasonUnauthorized            = "UNAUTHORIZED"
	ReasonForbidden               = "FORBIDDEN"
	ReasonBadRequest              = "BAD_REQUEST"
	ReasonInternal                = "INTERNAL"
	ReasonConflict                = "CONFLICT"
	ReasonValidation              = "VALIDATION_FAILED"
	ReasonRetryable               = "RETRYABLE_CONFLICT"
	ReasonInvalidRate             = "INVALID_RATE"
	ReasonFolioNotOpen            = "FOLIO_NOT_OPEN"
	ReasonInsufficientStock       = "INSUFFICIENT_STOCK"
	ReasonOverpayment             = "OVERPAYMENT"
	ReasonDuplicateSeries         = "DUPLICATE_SERIES"
	ReasonSeriesNotFound          = "SERIES_NOT_FOUND_OR_INACTIVE"
	ReasonCannotDeactivateDefault = "CANNOT_DEACTIVATE_DEFAULT"
	ReasonSessionAlreadyOpen      = "SESSION_ALREADY_OPEN"
	ReasonAlreadyClosed           = "ALREADY_CLOSED"
	ReasonReservationNotFound     = "RESERVATION_NOT_FOUND"
	ReasonGuestNotCheckedIn       = "GUEST_NOT_CHECKED_IN"
	ReasonNoOpenFolio             = "NO_OPEN_FOLIO"
	ReasonProductNotFound         = "PRODUCT_NOT_FOUND"
	ReasonNothingToInvoice        = "NOTHING_TO_INVOICE"
	ReasonFiscalSubmission        = "FISCAL_SUBMISSION_FAILED"
)

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Reason: ReasonNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Reason: ReasonForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Reason: ReasonBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Reason: ReasonInternal, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Reason: ReasonConflict, Message: "Resource already exists"}
	ErrValidation     = &AppError{Code: http.StatusBadRequest, Reason: ReasonValidation, Message: "Validation failed"}
	ErrTokenExpired   = &AppError{Code: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "Token has expired"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Reason: ReasonUnauthorized, Message: "Invalid token"}
	ErrRetryable      = &AppError{Code: http.StatusConflict, Reason: ReasonRetryable, Message: "Concurrent update detected, please retry"}
)

// Ledger errors
var (
	ErrInvalidRate              = &AppError{Code: http.StatusBadRequest, Reason: ReasonInvalidRate, Message: "Tax rate must not be negative"}
	ErrFolioNotOpen             = &AppError{Code: http.StatusBadRequest, Reason: ReasonFolioNotOpen, Message: "Folio is not open"}
	ErrInsufficientStock        = &AppError{Code: http.StatusBadRequest, Reason: ReasonInsufficientStock, Message: "Insufficient stock"}
	ErrOverpayment              = &AppError{Code: http.StatusBadRequest, Reason: ReasonOverpayment, Message: "Payment exceeds folio balance"}
	ErrDuplicateSeries          = &AppError{Code: http.StatusConflict, Reason: ReasonDuplicateSeries, Message: "Voucher series already exists"}
	ErrSeriesNotFoundOrInactive = &AppError{Code: http.StatusNotFound, Reason: ReasonSeriesNotFound, Message: "Voucher series not found or inactive"}
	ErrCannotDeactivateDefault  = &AppError{Code: http.StatusBadRequest, Reason: ReasonCannotDeactivateDefault, Message: "Default voucher series cannot be deactivated"}
	ErrSessionAlreadyOpen       = &AppError{Code: http.StatusConflict, Reason: ReasonSessionAlreadyOpen, Message: "A cashier session is already open"}
	ErrAlreadyClosed            = &AppError{Code: http.StatusBadRequest, Reason: ReasonAlreadyClosed, Message: "Cashier session is already closed"}
	ErrReservationNotFound      = &AppError{Code: http.StatusNotFound, Reason: ReasonReservationNotFound, Message: "Reservation not found"}
	ErrGuestNotCheckedIn        = &AppError{Code: http.StatusBadRequest, Reason: ReasonGuestNotCheckedIn, Message: "Guest is not checked in"}
	ErrNoOpenFolio              = &AppError{Code: http.StatusBadRequest, Reason: ReasonNoOpenFolio, Message: "Reservation has no folio"}
	ErrProductNotFound          = &AppError{Code: http.StatusNotFound, Reason: ReasonProductNotFound, Message: "Product not found or inactive"}
	ErrNothingToInvoice         = &AppError{Code: http.StatusBadRequest, Reason: ReasonNothingToInvoice, Message: "Folio has no invoiceable charges"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Reason:  ReasonValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Reason:  ReasonNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Reason:  ReasonConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Reason:  ReasonBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Reason:  ReasonInternal,
		Message: err.Error(),
	}
}
