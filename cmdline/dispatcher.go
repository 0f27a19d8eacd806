// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cmdline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Outcome tells the dispatcher whether to keep parsing after a flag.
type Outcome uint8

const (
	// Continue parsing with the next token.
	Continue Outcome = iota
	// Stop parsing successfully; remaining tokens are ignored.
	Stop
)

// State is the state of a parse.
type State uint8

const (
	// Running is the state while tokens are being consumed.
	Running State = iota
	// Completed means every token was consumed.
	Completed
	// Ended means a flag stopped parsing early.
	Ended
	// Failed means a token could not be consumed.
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Ended:
		return "Ended"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// OK reports whether the parse finished without error.
func (s State) OK() bool {
	return s == Completed || s == Ended
}

// Flag describes one command-line flag.
type Flag[C any] struct {
	// Name is the exact token that selects the flag, e.g. "--output".
	Name string

	// Arity is the number of tokens following Name that belong to the flag.
	Arity int

	// Args names the arguments in usage text, e.g. "<format> <name>".
	Args string

	// Usage is a one-line description.
	Usage string

	// Apply returns cfg with the flag applied. args holds exactly Arity
	// tokens.
	Apply func(cfg C, args *Cursor) (C, Outcome, error)
}

// Dispatcher folds argument tokens into a configuration of type C.
type Dispatcher[C any] struct {
	flags map[string]Flag[C]
	order []string

	// Positional receives tokens that are not flags. When nil, such tokens
	// are looked up as flags and fail as unknown.
	Positional func(cfg C, token string) (C, error)

	// PositionalName names the positional argument in usage text.
	PositionalName string

	// OnError is called once with the error that failed a parse.
	OnError func(err error)

	// Logger receives per-token debug records. Nil means slog.Default().
	Logger *slog.Logger
}

func (d *Dispatcher[C]) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// New returns a dispatcher with the given flags registered.
func New[C any](flags ...Flag[C]) *Dispatcher[C] {
	d := &Dispatcher[C]{flags: make(map[string]Flag[C], len(flags))}
	for _, f := range flags {
		d.Register(f)
	}
	return d
}

// Register adds a flag. It panics if the name is already registered or the
// flag is malformed.
func (d *Dispatcher[C]) Register(f Flag[C]) {
	if f.Name == "" || f.Apply == nil || f.Arity < 0 {
		panic(fmt.Sprintf("cmdline: malformed flag %q", f.Name))
	}
	if _, exists := d.flags[f.Name]; exists {
		panic(fmt.Sprintf("cmdline: flag redefined: %s", f.Name))
	}
	if d.flags == nil {
		d.flags = make(map[string]Flag[C])
	}
	d.flags[f.Name] = f
	d.order = append(d.order, f.Name)
}

// Lookup returns the flag registered under name.
func (d *Dispatcher[C]) Lookup(name string) (Flag[C], bool) {
	f, ok := d.flags[name]
	return f, ok
}

// Flags returns the registered flags in registration order.
func (d *Dispatcher[C]) Flags() []Flag[C] {
	out := make([]Flag[C], 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.flags[name])
	}
	return out
}

// isFlag reports whether tok has the shape of a flag. A lone "-" does not.
func isFlag(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// Parse folds tokens into cfg.
//
// On failure the returned configuration holds every flag applied before the
// failing one; the failing flag contributes nothing. OnError is called
// exactly once and the error is returned with state Failed.
func (d *Dispatcher[C]) Parse(cfg C, tokens []string) (C, State, error) {
	log := d.logger()
	cur := NewCursor(tokens)
	for !cur.Done() {
		tok, _ := cur.NextString()

		if !isFlag(tok) && d.Positional != nil {
			log.Debug("positional argument", "token", tok)
			next, err := d.Positional(cfg, tok)
			if err != nil {
				return d.fail(cfg, err)
			}
			cfg = next
			continue
		}

		f, ok := d.flags[tok]
		if !ok {
			return d.fail(cfg, &ArgumentError{Kind: ErrUnknownFlag, Token: tok})
		}
		args, err := cur.Take(f.Arity)
		if err != nil {
			return d.fail(cfg, withFlag(err, f.Name))
		}
		log.Debug("flag", "name", f.Name, "args", args)

		next, outcome, err := f.Apply(cfg, scoped(f.Name, args))
		if err != nil {
			return d.fail(cfg, withFlag(err, f.Name))
		}
		cfg = next
		if outcome == Stop {
			return cfg, Ended, nil
		}
	}
	return cfg, Completed, nil
}

func (d *Dispatcher[C]) fail(cfg C, err error) (C, State, error) {
	if d.OnError != nil {
		d.OnError(err)
	}
	return cfg, Failed, err
}

// withFlag attributes an error raised while applying a flag to that flag.
func withFlag(err error, name string) error {
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		if argErr.Flag == "" {
			argErr.Flag = name
		}
		return err
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Usage writes a one-line synopsis followed by one line per flag.
func (d *Dispatcher[C]) Usage(w io.Writer, program string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s", program)
	if d.PositionalName != "" {
		fmt.Fprintf(&b, " [%s]", d.PositionalName)
	}
	for _, f := range d.Flags() {
		b.WriteString(" [")
		b.WriteString(f.Name)
		if f.Args != "" {
			b.WriteByte(' ')
			b.WriteString(f.Args)
		}
		b.WriteByte(']')
	}
	b.WriteByte('\n')

	for _, f := range d.Flags() {
		if f.Usage == "" {
			continue
		}
		name := f.Name
		if f.Args != "" {
			name += " " + f.Args
		}
		fmt.Fprintf(&b, "  %-28s %s\n", name, f.Usage)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
