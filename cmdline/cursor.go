// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cmdline

import (
	"errors"
	"strconv"
)

// Cursor hands out argument tokens front to back. Its position only moves
// forward and never passes the end; consuming past the end is an
// ErrMissingValue.
type Cursor struct {
	flag   string
	tokens []string
	pos    int
}

// NewCursor returns a cursor over tokens.
func NewCursor(tokens []string) *Cursor {
	return &Cursor{tokens: tokens}
}

// scoped returns a cursor over the arguments of one flag.
func scoped(flag string, args []string) *Cursor {
	return &Cursor{flag: flag, tokens: args}
}

// Remaining returns the number of unconsumed tokens.
func (c *Cursor) Remaining() int {
	return len(c.tokens) - c.pos
}

// Done reports whether every token has been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.tokens)
}

// Take consumes the next n tokens. If fewer remain, nothing is consumed.
func (c *Cursor) Take(n int) ([]string, error) {
	if n < 0 || n > c.Remaining() {
		return nil, &ArgumentError{Kind: ErrMissingValue, Flag: c.flag}
	}
	out := c.tokens[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return out, nil
}

// NextString consumes one token.
func (c *Cursor) NextString() (string, error) {
	if c.Done() {
		return "", &ArgumentError{Kind: ErrMissingValue, Flag: c.flag}
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok, nil
}

// NextUint consumes one token and parses it as a base-10 unsigned 32-bit
// integer.
func (c *Cursor) NextUint() (uint32, error) {
	tok, err := c.NextString()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		kind := ErrInvalidNumber
		if errors.Is(err, strconv.ErrRange) {
			kind = ErrOutOfRange
		}
		return 0, &ArgumentError{Kind: kind, Flag: c.flag, Token: tok, Err: err}
	}
	return uint32(v), nil
}

// NextDouble consumes one token and parses it as a floating-point literal.
func (c *Cursor) NextDouble() (float64, error) {
	tok, err := c.NextString()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &ArgumentError{Kind: ErrInvalidNumber, Flag: c.flag, Token: tok, Err: err}
	}
	return v, nil
}
