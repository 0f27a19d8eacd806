// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package backend generates GLSL or C++ source by running the spirv-cross
// executable over a reflected module.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gogpu/spir2cross/spirv"
	"github.com/gogpu/spir2cross/spvreflect"
)

// DefaultBinary is the executable run when Options.Binary is empty.
const DefaultBinary = "spirv-cross"

// Target selects the generated language.
type Target uint8

const (
	// TargetGLSL generates GLSL or GLSL ES.
	TargetGLSL Target = iota
	// TargetCPP generates C++ for running shaders on the CPU.
	TargetCPP
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetGLSL:
		return "glsl"
	case TargetCPP:
		return "cpp"
	default:
		return "unknown"
	}
}

// Options configures the backend.
type Options struct {
	// Binary is the spirv-cross executable. Defaults to DefaultBinary.
	Binary string

	// Target is the generated language.
	Target Target

	// Logger receives debug records. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns options generating GLSL with spirv-cross from PATH.
func DefaultOptions() Options {
	return Options{
		Binary: DefaultBinary,
		Target: TargetGLSL,
	}
}

// Source is the reflected module and the code generation state recorded on
// it. *spvreflect.Compiler implements it.
type Source interface {
	Words() []uint32
	Options() spvreflect.Options
	FlattenedBlocks() []uint32
	PixelLocalStorage() (inputs, outputs []spvreflect.PlsRemap)
	Name(id uint32) string
	FallbackName(id uint32) string
}

var _ Source = (*spvreflect.Compiler)(nil)

// Runner executes name with args, feeding stdin, and returns what the
// process wrote to stdout and stderr.
type Runner func(ctx context.Context, name string, args []string, stdin []byte) (stdout, stderr []byte, err error)

// ExecRunner runs a real process. Cancelling ctx kills it.
func ExecRunner(ctx context.Context, name string, args []string, stdin []byte) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Backend generates source code from a reflected module.
type Backend struct {
	options Options
	run     Runner
}

// New creates a backend that runs processes with run. A nil run uses
// ExecRunner.
func New(options Options, run Runner) *Backend {
	if options.Binary == "" {
		options.Binary = DefaultBinary
	}
	if run == nil {
		run = ExecRunner
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Backend{options: options, run: run}
}

// Options returns the backend configuration.
func (b *Backend) Options() Options {
	return b.options
}

// Args returns the spirv-cross command line for src. The module itself is
// read from stdin.
func (b *Backend) Args(src Source) []string {
	opts := src.Options()
	var args []string

	if b.options.Target == TargetCPP {
		args = append(args, "--cpp")
	}
	if opts.Version != 0 {
		args = append(args, "--version", strconv.FormatUint(uint64(opts.Version), 10))
	}
	if opts.ES {
		args = append(args, "--es")
	} else {
		args = append(args, "--no-es")
	}
	if opts.ForceTemporary {
		args = append(args, "--force-temporary")
	}
	if opts.Vertex.FixupClipSpace {
		args = append(args, "--fixup-clipspace")
	}
	if len(src.FlattenedBlocks()) > 0 {
		args = append(args, "--flatten-ubo")
	}

	inputs, outputs := src.PixelLocalStorage()
	for _, pls := range inputs {
		args = append(args, "--pls-in", pls.Format.String(), b.name(src, pls.ID))
	}
	for _, pls := range outputs {
		args = append(args, "--pls-out", pls.Format.String(), b.name(src, pls.ID))
	}

	return append(args, "-")
}

func (b *Backend) name(src Source, id uint32) string {
	if name := src.Name(id); name != "" {
		return name
	}
	return src.FallbackName(id)
}

// Compile runs spirv-cross over src and returns the generated source.
func (b *Backend) Compile(ctx context.Context, src Source) (string, error) {
	args := b.Args(src)
	b.options.Logger.Debug("running code generator", "binary", b.options.Binary, "args", args)

	stdout, stderr, err := b.run(ctx, b.options.Binary, args, spirv.BytesFromWords(src.Words()))
	if err != nil {
		return "", &Error{
			Binary: b.options.Binary,
			Args:   args,
			Stderr: strings.TrimSpace(string(stderr)),
			Err:    err,
		}
	}
	return string(stdout), nil
}

// Error reports a failed code generator run.
type Error struct {
	Binary string
	Args   []string
	// Stderr is the trimmed diagnostic output of the process.
	Stderr string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("backend: %s %s: %v", e.Binary, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the process error.
func (e *Error) Unwrap() error {
	return e.Err
}
