// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spir2cross

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/gogpu/spir2cross/backend"
	"github.com/gogpu/spir2cross/cmdline"
	"github.com/gogpu/spir2cross/remap"
	"github.com/gogpu/spir2cross/report"
	"github.com/gogpu/spir2cross/spirv"
	"github.com/gogpu/spir2cross/spvreflect"
)

// Program is the name used in usage text.
const Program = "spir2cross"

var (
	// ErrMissingInput is returned when no module path was given.
	ErrMissingInput = errors.New("Didn't specify input file.")

	// ErrNoVersion is returned when neither --version nor the module
	// names a GLSL version.
	ErrNoVersion = errors.New("Didn't specify GLSL version and SPIR-V did not specify language.")
)

// ExitError carries the process exit code of a failed run. Its message has
// already been reported on the error stream.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d: %v", e.Code, e.Err)
}

// Unwrap returns the cause.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitError(err error) *ExitError {
	return &ExitError{Code: 1, Err: err}
}

// Streams are the standard streams of a run.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func newDispatcher(stderr io.Writer, logger *slog.Logger) *cmdline.Dispatcher[Config] {
	d := cmdline.New(optionTable(logger)...)
	d.Logger = logger
	d.PositionalName = "<SPIR-V file>"
	d.Positional = func(c Config, token string) (Config, error) {
		c.Input = token
		return c, nil
	}
	d.OnError = func(err error) {
		fmt.Fprintf(stderr, "%s: %v\n", Program, err)
		_ = d.Usage(stderr, Program)
	}
	return d
}

// Usage writes the usage text.
func Usage(w io.Writer) error {
	return newDispatcher(io.Discard, slog.Default()).Usage(w, Program)
}

// ParseArgs parses the command line, without the program name, starting
// from DefaultConfig. Usage is printed to stderr once on failure and when
// --help ends parsing. Parsing is logged to stderr at the level named by
// the last valid --log-level token.
func ParseArgs(tokens []string, stderr io.Writer) (Config, cmdline.State, error) {
	d := newDispatcher(stderr, NewLogger(scanLogLevel(tokens), stderr))
	cfg, state, err := d.Parse(DefaultConfig(), tokens)
	if state == cmdline.Ended && cfg.Help {
		_ = d.Usage(stderr, Program)
	}
	return cfg, state, err
}

// scanLogLevel returns the value of the last valid --log-level in tokens, so
// that parsing itself can be logged before the flags are folded.
func scanLogLevel(tokens []string) string {
	level := DefaultConfig().LogLevel
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i] != "--log-level" {
			continue
		}
		if _, err := ParseLogLevel(tokens[i+1]); err == nil {
			level = tokens[i+1]
		}
		i++
	}
	return level
}

// RunOption customizes Run.
type RunOption func(*runOptions)

type runOptions struct {
	runner backend.Runner
	logger *slog.Logger
}

// WithRunner replaces the process runner used for code generation.
func WithRunner(r backend.Runner) RunOption {
	return func(o *runOptions) {
		o.runner = r
	}
}

// WithLogger replaces the logger built from Config.LogLevel.
func WithLogger(l *slog.Logger) RunOption {
	return func(o *runOptions) {
		o.logger = l
	}
}

// Main parses args and runs the result. Parse failures and failed runs are
// returned as *ExitError; --help returns nil.
func Main(ctx context.Context, args []string, streams Streams, opts ...RunOption) error {
	cfg, state, err := ParseArgs(args, streams.Stderr)
	if err != nil {
		return exitError(err)
	}
	if state == cmdline.Ended {
		return nil
	}
	return Run(ctx, cfg, streams, opts...)
}

// Run reads the module, reflects it, prints the requested diagnostics and
// writes the generated source.
func Run(ctx context.Context, cfg Config, streams Streams, opts ...RunOption) error {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = NewLogger(cfg.LogLevel, streams.Stderr)
	}

	if cfg.Input == "" {
		fmt.Fprintln(streams.Stderr, ErrMissingInput)
		_ = Usage(streams.Stderr)
		return exitError(ErrMissingInput)
	}

	words := readModule(cfg.Input, streams)
	log.Debug("module read", "input", cfg.Input, "words", len(words))

	compiler, err := spvreflect.New(words)
	if err != nil {
		fmt.Fprintf(streams.Stderr, "Failed to parse SPIR-V module %s: %v\n", cfg.Input, err)
		return exitError(err)
	}

	if !cfg.VersionSet && compiler.Options().Version == 0 {
		fmt.Fprintln(streams.Stderr, ErrNoVersion)
		_ = Usage(streams.Stderr)
		return exitError(ErrNoVersion)
	}

	glsl := compiler.Options()
	if cfg.VersionSet {
		glsl.Version = cfg.Version
	}
	if cfg.ESSet {
		glsl.ES = cfg.ES
	}
	glsl.ForceTemporary = cfg.ForceTemporary
	glsl.Vertex.FixupClipSpace = cfg.FixupClipSpace
	compiler.SetOptions(glsl)
	log.Debug("code generation options", "version", glsl.Version, "es", glsl.ES)

	res := compiler.ShaderResources()

	if cfg.FlattenUBO {
		for _, ubo := range res.UniformBuffers {
			if err := compiler.FlattenInterfaceBlock(ubo.ID); err != nil {
				log.Warn("cannot flatten uniform buffer", "id", ubo.ID, "err", err)
			}
		}
	}

	miss := func(e *remap.MissError) {
		fmt.Fprintln(streams.Stderr, e.Error())
	}
	plsIn := remap.Remap(cfg.PLSIn, res.StageInputs, res.SubpassInputs, miss)
	plsOut := remap.Remap(cfg.PLSOut, res.StageOutputs, nil, miss)
	compiler.RemapPixelLocalStorage(plsIn, plsOut)

	if cfg.DumpResources {
		r := report.New(streams.Stderr, compiler)
		if err := r.Resources(res); err != nil {
			return exitError(err)
		}
		if err := r.PushConstantRanges(res.PushConstantBuffers); err != nil {
			return exitError(err)
		}
	}

	target := backend.TargetGLSL
	if cfg.CPP {
		target = backend.TargetCPP
	}
	be := backend.New(backend.Options{Binary: cfg.SpirvCross, Target: target, Logger: log}, o.runner)

	var source string
	for i := uint32(0); i < cfg.Iterations; i++ {
		source, err = be.Compile(ctx, compiler)
		if err != nil {
			fmt.Fprintln(streams.Stderr, err)
			return exitError(err)
		}
	}

	return writeOutput(cfg.Output, source, streams)
}

// readModule loads the input module. Read failures are reported and yield
// an empty module.
func readModule(input string, streams Streams) []uint32 {
	var (
		words []uint32
		err   error
	)
	if input == "-" {
		if isTerminal(streams.Stdin) {
			err = errors.New("`-` should be used with a pipe for stdin")
		} else {
			words, err = spirv.ReadWords(streams.Stdin)
		}
	} else {
		words, err = spirv.ReadFile(input)
	}
	if err != nil {
		fmt.Fprintf(streams.Stderr, "Failed to open SPIRV file: %s: %v\n", input, err)
		return nil
	}
	return words
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeOutput(path, source string, streams Streams) error {
	if path == "" {
		if _, err := io.WriteString(streams.Stdout, source); err != nil {
			return exitError(err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		fmt.Fprintf(streams.Stderr, "Failed to write file: %s: %v\n", path, err)
		return exitError(err)
	}
	return nil
}
