// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command spir2cross cross-compiles SPIR-V modules to GLSL.
//
// Usage:
//
//	spir2cross [--flag args]... <SPIR-V file>
//
// Examples:
//
//	spir2cross --version 310 --es shader.spv          # GLSL ES 3.10 to stdout
//	spir2cross --dump-resources shader.spv            # list reflected resources
//	spir2cross --pls-in rgba8 vColor shader.spv       # bind vColor to pixel local storage
//	spir2cross --config gles.hcl --output out.glsl -  # read the module from a pipe
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gogpu/spir2cross"
)

func newRootCmd(opts ...spir2cross.RunOption) *cobra.Command {
	return &cobra.Command{
		Use:   "spir2cross [--flag args]... <SPIR-V file>",
		Short: "Cross-compile SPIR-V to GLSL",
		Long: `spir2cross reflects a SPIR-V module, resolves pixel local storage
requests against its stage inputs and outputs, and generates GLSL or C++
source with spirv-cross.`,
		// Flags take a fixed number of arguments each and are handled by
		// the spir2cross option table, not pflag.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			streams := spir2cross.Streams{
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}
			return spir2cross.Main(cmd.Context(), args, streams, opts...)
		},
	}
}

// run executes the root command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, opts ...spir2cross.RunOption) int {
	cmd := newRootCmd(opts...)
	// cobra falls back to os.Args for a nil slice.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exitErr *spir2cross.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
