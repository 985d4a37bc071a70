package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// クライアントが分岐に使う安定したエラー種別
type ErrorKind string

const (
	KindInvalidToken         ErrorKind = "INVALID_TOKEN"
	KindCartNotFound         ErrorKind = "CART_NOT_FOUND"
	KindEmptyCart            ErrorKind = "EMPTY_CART"
	KindPriceMissing         ErrorKind = "PRICE_MISSING"
	KindPriceMismatch        ErrorKind = "PRICE_MISMATCH"
	KindAmountTooSmall       ErrorKind = "AMOUNT_TOO_SMALL"
	KindPaymentProviderError ErrorKind = "PAYMENT_PROVIDER_ERROR"
	KindOrderLinkFailure     ErrorKind = "ORDER_LINK_FAILURE"
	KindValidation           ErrorKind = "VALIDATION_ERROR"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindConflict             ErrorKind = "CONFLICT"
	KindUnauthorized         ErrorKind = "UNAUTHORIZED"
	KindForbidden            ErrorKind = "FORBIDDEN"
	KindInternal             ErrorKind = "INTERNAL"
)

type HTTPError struct {
	Status  int
	Code    ErrorKind
	Message string
	Details map[string]any
	cause   error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.cause }

// status から既定の種別を決める。種別を明示したいときは NewKindError。
func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    defaultKind(status),
		Message: message,
	}
}

func NewKindError(status int, kind ErrorKind, message string) *HTTPError {
	return &HTTPError{
		Status:  status,
		Code:    kind,
		Message: message,
	}
}

func (e *HTTPError) WithDetails(details map[string]any) *HTTPError {
	e.Details = details
	return e
}

func (e *HTTPError) WithCause(err error) *HTTPError {
	e.cause = err
	return e
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func defaultKind(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}

func errDB(err error) error {
	return NewKindError(http.StatusInternalServerError, KindInternal, "db error").WithCause(err)
}
