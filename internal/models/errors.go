package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every component. Wrap with fmt.Errorf("...: %w")
// and classify with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrConflict            = errors.New("conflict")

	ErrUnsupportedProvider = fmt.Errorf("%w: unsupported provider", ErrInvalidRequest)
	ErrProviderUnavailable = fmt.Errorf("%w: provider unavailable", ErrUpstreamUnavailable)
	ErrProgramNotFound     = fmt.Errorf("program %w", ErrNotFound)
)

// ErrorKind returns the taxonomy name of err, or "internal" when it is not
// one of the known kinds.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
