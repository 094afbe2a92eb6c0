package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot", ErrNotFound)
	ErrColumnNotFound   = fmt.Errorf("%w: column", ErrNotFound)

	// Analysis errors
	ErrEmptyDataset = errors.New("dataset has no records")

	// Preprocessing errors
	ErrInvalidOption = errors.New("unrecognized preprocessing option")

	// Ingest errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoHeader          = errors.New("input has no header row")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewInvalidOptionError(field string, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidOption, field, value)
}

func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
}

func NewUnsupportedFormatError(format string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsEmptyDatasetError(err error) bool {
	return errors.Is(err, ErrEmptyDataset)
}

func IsInvalidOptionError(err error) bool {
	return errors.Is(err, ErrInvalidOption)
}

func IsIngestError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrNoHeader)
}
