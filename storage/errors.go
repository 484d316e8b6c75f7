package storage

import (
	"errors"
	"fmt"
)

// ErrorKind classifies persistence failures.
type ErrorKind string

const (
	NotAvailable    ErrorKind = "STORAGE_NOT_AVAILABLE"
	QuotaExceeded   ErrorKind = "STORAGE_QUOTA_EXCEEDED"
	CorruptedData   ErrorKind = "CORRUPTED_DATA"
	ParseError      ErrorKind = "PARSE_ERROR"
	ValidationError ErrorKind = "VALIDATION_ERROR"
)

var (
	ErrNotAvailable  = errors.New("storage not available")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrCorruptedData = errors.New("corrupted data")
	ErrParse         = errors.New("parse error")
	ErrValidation    = errors.New("validation error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case NotAvailable:
		return ErrNotAvailable
	case QuotaExceeded:
		return ErrQuotaExceeded
	case CorruptedData:
		return ErrCorruptedData
	case ParseError:
		return ErrParse
	case ValidationError:
		return ErrValidation
	}
	return nil
}

// Error is returned by Store operations that fail loudly.
type Error struct {
	Kind ErrorKind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s for key %q: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s for key %q", e.Kind, e.Key)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match on the kind sentinels, e.g. errors.Is(err, ErrQuotaExceeded).
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// KindOf reports the ErrorKind carried by err, or "" when err is not a storage error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
