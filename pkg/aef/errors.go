package aef

import (
	"errors"
	"fmt"
)

// Sentinel error kinds per the error taxonomy. Callers use errors.Is against
// these; AuthFailureError additionally carries the failing unit's context.
var (
	ErrBadFormat     = errors.New("aef: bad container format")
	ErrUnknownSuite  = errors.New("aef: unknown cipher suite")
	ErrNameTooLong   = errors.New("aef: filename exceeds maximum length")
	ErrTruncated     = errors.New("aef: container ends mid-unit")
	ErrKdfFailure    = errors.New("aef: key derivation failed")
	ErrRandomFailure = errors.New("aef: random source failed")
	ErrAuthFailure   = errors.New("aef: authentication failed")
	ErrIO            = errors.New("aef: io error")
)

// AuthFailureError reports which unit of the container failed AEAD
// verification: "filename", "metadata", or "chunk N".
type AuthFailureError struct {
	Context string
}

func (e *AuthFailureError) Error() string {
	return fmt.Sprintf("aef: authentication failed: %s", e.Context)
}

func (e *AuthFailureError) Unwrap() error {
	return ErrAuthFailure
}

func authFailure(context string) error {
	return &AuthFailureError{Context: context}
}

func authFailureChunk(index uint64) error {
	return &AuthFailureError{Context: fmt.Sprintf("chunk %d", index)}
}
