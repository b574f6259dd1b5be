package provider

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a provider call failure. The retry controller keys
// its policy off this classification.
type ErrorKind string

const (
	// ErrNotConfigured means the credential is missing; no network call was made.
	ErrNotConfigured ErrorKind = "not_configured"
	// ErrAuth means the provider rejected the credential. Never retried.
	ErrAuth ErrorKind = "auth"
	// ErrQuota means a rate limit or quota was exceeded. Retried with backoff.
	ErrQuota ErrorKind = "quota"
	// ErrTransient means a network or server fault. Retried briefly.
	ErrTransient ErrorKind = "transient"
	// ErrParse means the reply text could not be parsed. Resolved by the
	// heuristic fallback, never surfaced to callers.
	ErrParse ErrorKind = "parse"
)

// Error is a classified provider call failure with a human-readable message.
type Error struct {
	Backend Backend
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Backend, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Backend, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error without an underlying cause.
func NewError(backend Backend, kind ErrorKind, message string) *Error {
	return &Error{Backend: backend, Kind: kind, Message: message}
}

// WrapError builds a classified error wrapping an underlying cause.
func WrapError(backend Backend, kind ErrorKind, message string, err error) *Error {
	return &Error{Backend: backend, Kind: kind, Message: message, Err: err}
}

// NotConfiguredError is the distinguished failure for adapters without a
// usable credential.
func NotConfiguredError(backend Backend) *Error {
	return NewError(backend, ErrNotConfigured,
		fmt.Sprintf("servicio %s no configurado, agrega tu API key", backend))
}

// KindOf extracts the classification from err. Unclassified errors report
// ErrTransient, the conservative retryable default.
func KindOf(err error) ErrorKind {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return ErrTransient
}

// Classify wraps an arbitrary adapter error into a classified one. Already
// classified errors pass through. Raw errors are classified by sniffing the
// provider's error text, the only signal SDK errors reliably carry.
func Classify(backend Backend, err error) *Error {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "429"):
		return WrapError(backend, ErrQuota, "límite de cuota excedido", err)
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "401"):
		return WrapError(backend, ErrAuth,
			fmt.Sprintf("API key de %s inválida, verifica tu configuración", backend), err)
	default:
		return WrapError(backend, ErrTransient, "error de red o del servidor", err)
	}
}
