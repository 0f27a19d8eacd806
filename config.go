// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spir2cross

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/gogpu/spir2cross/profile"
	"github.com/gogpu/spir2cross/remap"
)

// Config is the result of parsing the command line.
type Config struct {
	// Input is the SPIR-V module path; "-" reads standard input.
	Input string

	// Output is the path the generated source is written to. Empty means
	// standard output.
	Output string

	// Version is the target GLSL version. It only applies when VersionSet
	// is true; otherwise the version embedded in the module is used.
	Version    uint32
	VersionSet bool

	// ES selects GLSL ES. It only applies when ESSet is true.
	ES    bool
	ESSet bool

	DumpResources  bool
	ForceTemporary bool
	FlattenUBO     bool
	FixupClipSpace bool

	// Iterations is the number of times code generation runs.
	Iterations uint32

	// CPP generates C++ instead of GLSL.
	CPP bool

	// PLSIn and PLSOut are the pixel local storage requests in command-line
	// order.
	PLSIn  []remap.Request
	PLSOut []remap.Request

	// SpirvCross is the code generator executable.
	SpirvCross string

	// LogLevel is one of debug, info, warn or error.
	LogLevel string

	// Profile is the last profile file loaded with --config.
	Profile string

	// Help is set by --help.
	Help bool
}

// DefaultConfig returns the configuration of an empty command line.
func DefaultConfig() Config {
	return Config{
		Iterations: 1,
		LogLevel:   "warn",
	}
}

// withPLSIn returns c with req appended to PLSIn without sharing the
// backing array of the receiver.
func (c Config) withPLSIn(req remap.Request) Config {
	c.PLSIn = append(slices.Clip(c.PLSIn), req)
	return c
}

func (c Config) withPLSOut(req remap.Request) Config {
	c.PLSOut = append(slices.Clip(c.PLSOut), req)
	return c
}

// WithProfile returns c with every attribute set in p applied on top.
func (c Config) WithProfile(p *profile.Profile) Config {
	if p.Version != nil {
		c.Version = *p.Version
		c.VersionSet = true
	}
	if p.ES != nil {
		c.ES = *p.ES
		c.ESSet = true
	}
	if p.DumpResources != nil {
		c.DumpResources = *p.DumpResources
	}
	if p.ForceTemporary != nil {
		c.ForceTemporary = *p.ForceTemporary
	}
	if p.FlattenUBO != nil {
		c.FlattenUBO = *p.FlattenUBO
	}
	if p.FixupClipSpace != nil {
		c.FixupClipSpace = *p.FixupClipSpace
	}
	if p.Iterations != nil {
		c.Iterations = *p.Iterations
	}
	if p.CPP != nil {
		c.CPP = *p.CPP
	}
	if p.Output != nil {
		c.Output = *p.Output
	}
	if p.SpirvCross != nil {
		c.SpirvCross = *p.SpirvCross
	}
	if p.LogLevel != nil {
		c.LogLevel = *p.LogLevel
	}
	for _, pls := range p.PLSIn {
		c = c.withPLSIn(remap.ParseRequest(pls.Format, pls.Name))
	}
	for _, pls := range p.PLSOut {
		c = c.withPLSOut(remap.ParseRequest(pls.Format, pls.Name))
	}
	return c
}

// ParseLogLevel maps a --log-level value to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}

// NewLogger returns a text logger writing to w. Unknown levels fall back
// to warn.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
