// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package profile loads HCL files holding reusable sets of command-line
// options.
//
// A profile looks like:
//
//	version         = 310
//	es              = true
//	dump_resources  = env.SPIR2CROSS_DUMP == "1"
//	output          = "${env.OUT_DIR}/shader.glsl"
//
//	pls_in "vColor" {
//	  format = "rgba8"
//	}
//
// Expressions can read the process environment through the env object.
// Attributes left out of a profile leave the corresponding option alone.
package profile

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// PLS is a pixel local storage request block.
type PLS struct {
	Name   string `hcl:"name,label"`
	Format string `hcl:"format"`
}

// Profile is a decoded profile file. Nil fields were not set.
type Profile struct {
	Version        *uint32 `hcl:"version,optional"`
	ES             *bool   `hcl:"es,optional"`
	DumpResources  *bool   `hcl:"dump_resources,optional"`
	ForceTemporary *bool   `hcl:"force_temporary,optional"`
	FlattenUBO     *bool   `hcl:"flatten_ubo,optional"`
	FixupClipSpace *bool   `hcl:"fixup_clipspace,optional"`
	Iterations     *uint32 `hcl:"iterations,optional"`
	CPP            *bool   `hcl:"cpp,optional"`
	Output         *string `hcl:"output,optional"`
	SpirvCross     *string `hcl:"spirv_cross,optional"`
	LogLevel       *string `hcl:"log_level,optional"`

	PLSIn  []PLS `hcl:"pls_in,block"`
	PLSOut []PLS `hcl:"pls_out,block"`
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

// EvalContext exposes env to profile expressions as the env object.
func EvalContext(env map[string]string) *hcl.EvalContext {
	vals := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vals[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vals),
		},
	}
}

// Loader decodes profiles against an environment.
type Loader struct {
	// Env is exposed to expressions as the env object.
	Env map[string]string
	// Logger receives debug records. Nil means slog.Default().
	Logger *slog.Logger
}

func (l Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Load parses and decodes the profile at path.
func (l Loader) Load(path string) (*Profile, error) {
	l.logger().Debug("loading profile", "path", path)
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile %s: %s", path, diags.Error())
	}
	return l.decode(path, file)
}

// Parse decodes a profile held in memory. filename is used in diagnostics.
func (l Loader) Parse(src []byte, filename string) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile %s: %s", filename, diags.Error())
	}
	return l.decode(filename, file)
}

func (l Loader) decode(name string, file *hcl.File) (*Profile, error) {
	var p Profile
	diags := gohcl.DecodeBody(file.Body, EvalContext(l.Env), &p)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode profile %s: %s", name, diags.Error())
	}
	l.logger().Debug("decoded profile", "path", name, "pls_in", len(p.PLSIn), "pls_out", len(p.PLSOut))
	return &p, nil
}

// Load parses and decodes the profile at path with the default logger.
func Load(path string, env map[string]string) (*Profile, error) {
	return Loader{Env: env}.Load(path)
}

// Parse decodes a profile held in memory with the default logger.
func Parse(src []byte, filename string, env map[string]string) (*Profile, error) {
	return Loader{Env: env}.Parse(src, filename)
}
