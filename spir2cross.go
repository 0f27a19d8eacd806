// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spir2cross is the command-line front end of a SPIR-V to GLSL
// cross-compiler.
//
// The pipeline is:
//  1. Parse the command line into a Config (ParseArgs)
//  2. Read the SPIR-V module and index it for reflection (spvreflect)
//  3. Resolve pixel local storage requests against the reflected inputs
//     and outputs (remap)
//  4. Optionally print the reflected resources (report)
//  5. Generate source with spirv-cross (backend) and write it out
//
// Example usage:
//
//	err := spir2cross.Main(ctx, []string{"--version", "310", "--es", "shader.spv"}, spir2cross.StdStreams())
//	var exitErr *spir2cross.ExitError
//	if errors.As(err, &exitErr) {
//		os.Exit(exitErr.Code)
//	}
//
// A Config can also be built directly and handed to Run:
//
//	cfg := spir2cross.DefaultConfig()
//	cfg.Input = "shader.spv"
//	cfg.Version, cfg.VersionSet = 450, true
//	err := spir2cross.Run(ctx, cfg, spir2cross.StdStreams())
package spir2cross
