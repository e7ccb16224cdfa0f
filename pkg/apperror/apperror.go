package apperror

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeUpstream            Code = "UPSTREAM_ERROR"
	CodeNoResults           Code = "NO_RESULTS"
	CodeFareUnavailable     Code = "FARE_UNAVAILABLE"
	CodeBooking             Code = "BOOKING_ERROR"
	CodeMissingData         Code = "MISSING_DATA"
	CodePersistence         Code = "PERSISTENCE_ERROR"
	CodePaymentCancelled    Code = "PAYMENT_CANCELLED"
	CodeDuplicateSubmission Code = "DUPLICATE_SUBMISSION"
	CodeInvalidState        Code = "INVALID_STATE"
	CodeNotFound            Code = "NOT_FOUND"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeForbidden           Code = "FORBIDDEN"
	CodeInternalFailure     Code = "INTERNAL_FAILURE"
)

var statusByCode = map[Code]int{
	CodeValidation:          http.StatusBadRequest,
	CodeUpstream:            http.StatusBadGateway,
	CodeNoResults:           http.StatusOK,
	CodeFareUnavailable:     http.StatusConflict,
	CodeBooking:             http.StatusBadGateway,
	CodeMissingData:         http.StatusUnprocessableEntity,
	CodePersistence:         http.StatusAccepted,
	CodePaymentCancelled:    http.StatusConflict,
	CodeDuplicateSubmission: http.StatusConflict,
	CodeInvalidState:        http.StatusConflict,
	CodeNotFound:            http.StatusNotFound,
	CodeUnauthorized:        http.StatusUnauthorized,
	CodeForbidden:           http.StatusForbidden,
	CodeInternalFailure:     http.StatusInternalServerError,
}

// AppError is the single error shape rendered by the HTTP layer.
//
// ProviderStatus carries the upstream HTTP status when the error came from an
// external provider. Attempted reports whether a side-effecting external call
// was made before the failure.
type AppError struct {
	Code           Code
	Status         int
	Message        string
	Detail         string
	ProviderStatus int
	Attempted      bool
	Err            error
}

func (e *AppError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Status: status, Message: message}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func (e *AppError) WithErr(err error) *AppError {
	e.Err = err
	return e
}

func (e *AppError) WithProviderStatus(status int) *AppError {
	e.ProviderStatus = status
	return e
}

func (e *AppError) WithAttempted(attempted bool) *AppError {
	e.Attempted = attempted
	return e
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func Upstream(message string) *AppError {
	return New(CodeUpstream, message).WithAttempted(true)
}

func NoResults(message string) *AppError {
	return New(CodeNoResults, message)
}

func FareUnavailable(message string) *AppError {
	return New(CodeFareUnavailable, message).WithAttempted(true)
}

func Booking(message string) *AppError {
	return New(CodeBooking, message).WithAttempted(true)
}

func MissingData(message string) *AppError {
	return New(CodeMissingData, message)
}

func Persistence(message string) *AppError {
	return New(CodePersistence, message).WithAttempted(true)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func InvalidState(message string) *AppError {
	return New(CodeInvalidState, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message)
}

func DuplicateSubmission(message string) *AppError {
	return New(CodeDuplicateSubmission, message)
}

func PaymentCancelled(message string) *AppError {
	return New(CodePaymentCancelled, message)
}

func Internal(message string) *AppError {
	return New(CodeInternalFailure, message)
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func HasCode(err error, code Code) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
