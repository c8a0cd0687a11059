// Package apperr définit les erreurs typées des services métier et leur
// correspondance avec les codes HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code est l'identifiant d'erreur stable renvoyé aux clients.
type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeConflict          Code = "CONFLICT"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeEmptyCart         Code = "EMPTY_CART"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeInternal          Code = "INTERNAL"
)

const internalMessage = "Internal service error"

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return New(CodeValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(CodeForbidden, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(CodeUnauthorized, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(CodeConflict, format, args...)
}

func InsufficientStock(product string) *Error {
	return New(CodeInsufficientStock, "product %s is out of stock", product)
}

func EmptyCart() *Error {
	return New(CodeEmptyCart, "cart is empty")
}

// Internal masque err derrière le message générique ; la cause reste
// accessible par errors.Unwrap pour les logs.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: internalMessage, Err: err}
}

// As renvoie l'erreur typée portée par err. Les autres deviennent CodeInternal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeConflict, CodeInsufficientStock, CodeEmptyCart, CodeInvalidTransition:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
