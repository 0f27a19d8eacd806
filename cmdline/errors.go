// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cmdline

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes argument errors.
type ErrorKind uint8

const (
	// ErrUnknownFlag indicates a token that names no registered flag.
	ErrUnknownFlag ErrorKind = iota

	// ErrMissingValue indicates a flag ran out of following tokens.
	ErrMissingValue

	// ErrInvalidNumber indicates a token that does not parse as the expected number.
	ErrInvalidNumber

	// ErrOutOfRange indicates a number that does not fit its target type.
	ErrOutOfRange
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownFlag:
		return "UnknownFlag"
	case ErrMissingValue:
		return "MissingValue"
	case ErrInvalidNumber:
		return "InvalidNumber"
	case ErrOutOfRange:
		return "OutOfRange"
	default:
		return "Unknown"
	}
}

// ArgumentError reports a token that could not be consumed.
type ArgumentError struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Flag is the flag being processed, or "" for positional tokens.
	Flag string

	// Token is the offending token. Empty for ErrMissingValue.
	Token string

	// Err is the underlying conversion error, if any.
	Err error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	switch e.Kind {
	case ErrUnknownFlag:
		return fmt.Sprintf("unknown flag %q", e.Token)
	case ErrMissingValue:
		if e.Flag != "" {
			return fmt.Sprintf("%s: missing value", e.Flag)
		}
		return "missing value"
	}
	if e.Flag != "" {
		return fmt.Sprintf("%s: %s %q", e.Flag, e.Kind, e.Token)
	}
	return fmt.Sprintf("%s %q", e.Kind, e.Token)
}

// Unwrap returns the underlying conversion error.
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an ArgumentError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var argErr *ArgumentError
	return errors.As(err, &argErr) && argErr.Kind == kind
}
