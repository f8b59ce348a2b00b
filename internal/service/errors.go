package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound is returned when every lookup strategy came back empty.
	ErrNotFound = errors.New("channel not found")
	// ErrInsufficientData is reported when fewer than two snapshots exist.
	ErrInsufficientData = errors.New("not enough snapshots for analysis")
)

// Origin identifies which external collaborator failed.
type Origin string

const (
	OriginProvider Origin = "provider"
	OriginStorage  Origin = "storage"
)

// UpstreamError wraps a failed provider or storage call.
type UpstreamError struct {
	Origin Origin
	Op     string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Origin, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func providerError(op string, err error) error {
	return &UpstreamError{Origin: OriginProvider, Op: op, Err: err}
}

func storageError(op string, err error) error {
	return &UpstreamError{Origin: OriginStorage, Op: op, Err: err}
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

var errAllBatchesFailed = errors.New("every statistics batch failed")
