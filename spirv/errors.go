// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import "fmt"

// ErrorKind categorizes SPIR-V decoding errors.
type ErrorKind uint8

const (
	// ErrInvalidHeader indicates a missing or wrong magic number.
	ErrInvalidHeader ErrorKind = iota

	// ErrTruncated indicates the word stream ends inside the header or an instruction.
	ErrTruncated

	// ErrInvalidWordCount indicates an instruction declaring zero words.
	ErrInvalidWordCount

	// ErrShortRead indicates the byte stream is not a whole number of words.
	ErrShortRead
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidHeader:
		return "InvalidHeader"
	case ErrTruncated:
		return "Truncated"
	case ErrInvalidWordCount:
		return "InvalidWordCount"
	case ErrShortRead:
		return "ShortRead"
	default:
		return "Unknown"
	}
}

// Error represents a SPIR-V decoding error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Offset is the word offset of the failing instruction, or -1.
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("spirv %s at word %d: %s", e.Kind, e.Offset, e.Message)
	}
	return fmt.Sprintf("spirv %s: %s", e.Kind, e.Message)
}

// NewError creates a new decoding error without location information.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message, Offset: -1}
}

// NewErrorAt creates a new decoding error at the given word offset.
func NewErrorAt(kind ErrorKind, message string, offset int) *Error {
	return &Error{Kind: kind, Message: message, Offset: offset}
}
