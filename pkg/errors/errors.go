// Package errors application error codes and the single mapping from
// domain errors to them.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/pricing"
	"storefront/domain/shared"
)

// ErrorCode machine readable error code returned to clients
type ErrorCode string

const (
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeTimeout        ErrorCode = "TIMEOUT"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	CodeInvalidQuantity    ErrorCode = "INVALID_QUANTITY"
	CodeProductNotFound    ErrorCode = "PRODUCT_NOT_FOUND"
	CodeCartNotFound       ErrorCode = "CART_NOT_FOUND"
	CodeCartItemNotFound   ErrorCode = "CART_ITEM_NOT_FOUND"
	CodeOrderNotFound      ErrorCode = "ORDER_NOT_FOUND"
	CodeOrderItemNotFound  ErrorCode = "ORDER_ITEM_NOT_FOUND"
	CodeOrderItemImmutable ErrorCode = "ORDER_ITEM_IMMUTABLE"
	CodeEmptyOrder         ErrorCode = "EMPTY_ORDER"
	CodeInvalidCoupon      ErrorCode = "INVALID_COUPON"
	CodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	CodeConcurrentModify   ErrorCode = "CONCURRENT_MODIFICATION"
	CodeCurrencyMismatch   ErrorCode = "CURRENCY_MISMATCH"
)

var httpStatus = map[ErrorCode]int{
	CodeInternal:       http.StatusInternalServerError,
	CodeBadRequest:     http.StatusBadRequest,
	CodeUnauthorized:   http.StatusUnauthorized,
	CodeForbidden:      http.StatusForbidden,
	CodeNotFound:       http.StatusNotFound,
	CodeConflict:       http.StatusConflict,
	CodeTooManyRequest: http.StatusTooManyRequests,
	CodeTimeout:        http.StatusGatewayTimeout,
	CodeValidation:     http.StatusUnprocessableEntity,

	CodeInvalidQuantity:    http.StatusUnprocessableEntity,
	CodeProductNotFound:    http.StatusUnprocessableEntity,
	CodeCartNotFound:       http.StatusNotFound,
	CodeCartItemNotFound:   http.StatusNotFound,
	CodeOrderNotFound:      http.StatusNotFound,
	CodeOrderItemNotFound:  http.StatusNotFound,
	CodeOrderItemImmutable: http.StatusConflict,
	CodeEmptyOrder:         http.StatusUnprocessableEntity,
	CodeInvalidCoupon:      http.StatusUnprocessableEntity,
	CodeInvalidTransition:  http.StatusConflict,
	CodeConcurrentModify:   http.StatusConflict,
	CodeCurrencyMismatch:   http.StatusUnprocessableEntity,
}

// AppError error carried to the API layer
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode status for the code; unknown codes are 500.
func (e *AppError) HTTPStatusCode() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Unauthorized(message string) *AppError { return New(CodeUnauthorized, message) }
func Validation(message string) *AppError   { return New(CodeValidation, message) }
func NotFound(message string) *AppError     { return New(CodeNotFound, message) }

// OrderItemImmutable order items cannot be written through the API.
func OrderItemImmutable() *AppError {
	return New(CodeOrderItemImmutable, "order items are immutable snapshots; place a new order instead")
}

// Is reports whether err is an AppError with code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// mapping order matters: specific sentinels before the generic shared ones
// they may wrap.
var domainMappings = []struct {
	sentinel error
	code     ErrorCode
}{
	{cart.ErrInvalidQuantity, CodeInvalidQuantity},
	{order.ErrInvalidQuantity, CodeInvalidQuantity},
	{catalog.ErrProductNotFound, CodeProductNotFound},
	{cart.ErrCartNotFound, CodeCartNotFound},
	{cart.ErrItemNotFound, CodeCartItemNotFound},
	{order.ErrOrderNotFound, CodeOrderNotFound},
	{order.ErrItemNotFound, CodeOrderItemNotFound},
	{order.ErrEmptyOrder, CodeEmptyOrder},
	{pricing.ErrInvalidCoupon, CodeInvalidCoupon},
	{order.ErrInvalidTransition, CodeInvalidTransition},
	{order.ErrConcurrentModification, CodeConcurrentModify},
	{shared.ErrCurrencyMismatch, CodeCurrencyMismatch},
	{shared.ErrInvalidInput, CodeValidation},
	{shared.ErrUnauthorized, CodeUnauthorized},
	{shared.ErrForbidden, CodeForbidden},
	{shared.ErrNotFound, CodeNotFound},
	{shared.ErrConflict, CodeConflict},
}

// FromDomainError maps any error to an AppError. Domain errors keep their
// message; everything else becomes an internal error.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, m := range domainMappings {
		if errors.Is(err, m.sentinel) {
			return Wrap(err, m.code, domainMessage(err))
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, CodeTimeout, "request timed out")
	}
	return Wrap(err, CodeInternal, "internal server error")
}

func domainMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return err.Error()
}
