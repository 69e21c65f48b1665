package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrTransport  = errors.New("service unavailable")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrOrderNotFound       = fmt.Errorf("order %w", ErrNotFound)
	ErrAddressNotFound     = fmt.Errorf("address %w", ErrNotFound)
	ErrProductNotFound     = fmt.Errorf("product %w", ErrNotFound)
	ErrAlreadyResolved     = fmt.Errorf("%w: order is no longer pending", ErrConflict)
	ErrDuplicateOrderID    = fmt.Errorf("%w: order id already exists", ErrConflict)
	ErrForbiddenTransition = fmt.Errorf("%w: transition not allowed for this role", ErrForbidden)
	ErrNotOwner            = fmt.Errorf("%w: resource belongs to another buyer", ErrForbidden)
	ErrRoleRequired        = fmt.Errorf("%w: operation not allowed for this role", ErrForbidden)
	ErrEmptyCart           = &ValidationError{Reason: "cart is empty"}
)

// ValidationError is raised before any write happens.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RemoteError is a non-2xx answer from the market service.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("market service returned status %d", e.StatusCode)
}

func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusUnauthorized
	case ErrTransport:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// UserMessage picks the most specific text for err: a message sent by the
// server, then the transport or local error text, then fallback. A 4xx
// answer without a message falls back.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		switch {
		case remote.Message != "":
			return remote.Message
		case errors.Is(remote, ErrTransport):
			return remote.Error()
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
