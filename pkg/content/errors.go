package content

import (
	"errors"
	"fmt"
)

var (
	// ErrContent marks malformed or duplicate catalog data. It is fatal at
	// load time and must prevent a session from starting.
	ErrContent = errors.New("content error")

	// ErrInvalidReference marks a lookup of an id the catalog does not hold.
	ErrInvalidReference = errors.New("invalid reference")

	ErrEventNotFound       = fmt.Errorf("%w: event not found", ErrInvalidReference)
	ErrCollectibleNotFound = fmt.Errorf("%w: collectible not found", ErrInvalidReference)
)

// ContentError describes a single catalog defect.
type ContentError struct {
	Kind   string // "event" or "collectible"
	ID     int
	Reason string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content error: %s %d: %s", e.Kind, e.ID, e.Reason)
}

func (e *ContentError) Unwrap() error {
	return ErrContent
}
