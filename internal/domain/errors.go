package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures independent of the specific reason.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidInput      ErrorKind = "invalid_input"
	KindUnavailable       ErrorKind = "unavailable"
	KindConflict          ErrorKind = "conflict"
	KindResourceExhausted ErrorKind = "resource_exhausted"
	KindInternal          ErrorKind = "internal"
)

// ErrorCode is the machine readable reason surfaced to callers.
type ErrorCode string

const (
	CodeOrderFormDataInvalid  ErrorCode = "ORDER_FORM_DATA_INVALID"
	CodeOrderFormDataRequired ErrorCode = "ORDER_FORM_DATA_REQUIRED"
	CodeOrderFormFieldReq     ErrorCode = "ORDER_FORM_FIELD_REQUIRED"
	CodeOrderFormSchemaChange ErrorCode = "ORDER_FORM_SCHEMA_CHANGED"
	CodeOrderFormFieldInvalid ErrorCode = "ORDER_FORM_FIELD_INVALID"

	CodeInvalidOrderItems       ErrorCode = "INVALID_ORDER_ITEMS"
	CodeInvalidTotalPrice       ErrorCode = "INVALID_TOTAL_PRICE"
	CodeInvalidTotalQuantity    ErrorCode = "INVALID_TOTAL_QUANTITY"
	CodeInvalidQuantity         ErrorCode = "INVALID_QUANTITY"
	CodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	CodeCannotRevertConfirmed   ErrorCode = "CANNOT_REVERT_CONFIRMED"

	CodeProductNotFound  ErrorCode = "PRODUCT_NOT_FOUND"
	CodeCartItemNotFound ErrorCode = "CART_ITEM_NOT_FOUND"
	CodeOrderNotFound    ErrorCode = "ORDER_NOT_FOUND"

	CodeProductInactive     ErrorCode = "PRODUCT_INACTIVE"
	CodeProductNotAvailable ErrorCode = "PRODUCT_NOT_AVAILABLE"
	CodeProductOutOfStock   ErrorCode = "PRODUCT_OUT_OF_STOCK"

	CodeOrderNumberConflict ErrorCode = "ORDER_NUMBER_CONFLICT"
	CodeOrderCreateFailed   ErrorCode = "ORDER_CREATE_FAILED"
)

var codeKinds = map[ErrorCode]ErrorKind{
	CodeOrderFormDataInvalid:    KindInvalidInput,
	CodeOrderFormDataRequired:   KindInvalidInput,
	CodeOrderFormFieldReq:       KindInvalidInput,
	CodeOrderFormSchemaChange:   KindInvalidInput,
	CodeOrderFormFieldInvalid:   KindInvalidInput,
	CodeInvalidOrderItems:       KindInvalidInput,
	CodeInvalidTotalPrice:       KindInvalidInput,
	CodeInvalidTotalQuantity:    KindInvalidInput,
	CodeInvalidQuantity:         KindInvalidInput,
	CodeInvalidStatusTransition: KindInvalidInput,
	CodeCannotRevertConfirmed:   KindInvalidInput,
	CodeProductNotFound:         KindNotFound,
	CodeCartItemNotFound:        KindNotFound,
	CodeOrderNotFound:           KindNotFound,
	CodeProductInactive:         KindUnavailable,
	CodeProductNotAvailable:     KindUnavailable,
	CodeProductOutOfStock:       KindUnavailable,
	CodeOrderNumberConflict:     KindConflict,
	CodeOrderCreateFailed:       KindInternal,
}

// Error is a typed failure carrying a kind, a code and a user facing message.
type Error struct {
	Kind    ErrorKind
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a domain error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// NewError builds an error whose kind is derived from the code.
func NewError(code ErrorCode, message string) *Error {
	kind, ok := codeKinds[code]
	if !ok {
		kind = KindInternal
	}
	return &Error{Kind: kind, Code: code, Message: message}
}

// Errorf is NewError with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WrapError attaches a cause to a new domain error.
func WrapError(code ErrorCode, kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first domain error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}

// KindOf returns the kind of the first domain error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	ErrOrderNotFound    = NewError(CodeOrderNotFound, "order not found")
	ErrProductNotFound  = NewError(CodeProductNotFound, "product not found")
	ErrCartItemNotFound = NewError(CodeCartItemNotFound, "cart item not found")
)
