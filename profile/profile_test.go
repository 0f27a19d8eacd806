// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package profile

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_AllAttributes(t *testing.T) {
	src := `
version         = 450
es              = false
dump_resources  = true
force_temporary = true
flatten_ubo     = true
fixup_clipspace = true
iterations      = 3
cpp             = true
output          = "out.glsl"
spirv_cross     = "/usr/local/bin/spirv-cross"
log_level       = "debug"

pls_in "vColor" {
  format = "rgba8"
}

pls_in "uSubpass" {
  format = "r32f"
}

pls_out "FragColor" {
  format = "rgb10_a2"
}
`
	p, err := Parse([]byte(src), "full.hcl", nil)
	require.NoError(t, err)

	require.NotNil(t, p.Version)
	require.Equal(t, uint32(450), *p.Version)
	require.NotNil(t, p.ES)
	require.False(t, *p.ES)
	require.True(t, *p.DumpResources)
	require.True(t, *p.ForceTemporary)
	require.True(t, *p.FlattenUBO)
	require.True(t, *p.FixupClipSpace)
	require.Equal(t, uint32(3), *p.Iterations)
	require.True(t, *p.CPP)
	require.Equal(t, "out.glsl", *p.Output)
	require.Equal(t, "/usr/local/bin/spirv-cross", *p.SpirvCross)
	require.Equal(t, "debug", *p.LogLevel)

	require.Equal(t, []PLS{{Name: "vColor", Format: "rgba8"}, {Name: "uSubpass", Format: "r32f"}}, p.PLSIn)
	require.Equal(t, []PLS{{Name: "FragColor", Format: "rgb10_a2"}}, p.PLSOut)
}

func TestParse_Empty(t *testing.T) {
	p, err := Parse([]byte(""), "empty.hcl", nil)
	require.NoError(t, err)
	require.Nil(t, p.Version)
	require.Nil(t, p.ES)
	require.Nil(t, p.Output)
	require.Empty(t, p.PLSIn)
	require.Empty(t, p.PLSOut)
}

func TestParse_Env(t *testing.T) {
	src := `
output         = "${env.OUT_DIR}/shader.glsl"
dump_resources = env.DUMP == "1"
`
	p, err := Parse([]byte(src), "env.hcl", map[string]string{"OUT_DIR": "/tmp/build", "DUMP": "1"})
	require.NoError(t, err)
	require.Equal(t, "/tmp/build/shader.glsl", *p.Output)
	require.True(t, *p.DumpResources)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `version = `},
		{"unknown attribute", `bogus = 1`},
		{"wrong type", `es = "maybe"`},
		{"missing format", "pls_in \"x\" {\n}\n"},
		{"undefined env", `output = env.NOT_SET`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl", map[string]string{})
			require.Error(t, err)
			require.Contains(t, err.Error(), "bad.hcl")
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.hcl")
	require.NoError(t, os.WriteFile(path, []byte("version = 310\nes = true\n"), 0o600))

	p, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(310), *p.Version)
	require.True(t, *p.ES)

	_, err = Load(filepath.Join(dir, "missing.hcl"), nil)
	require.Error(t, err)
}

func TestEnviron(t *testing.T) {
	t.Setenv("SPIR2CROSS_PROFILE_TEST", "a=b")
	env := Environ()
	require.Equal(t, "a=b", env["SPIR2CROSS_PROFILE_TEST"])
}

func TestLoader_Logger(t *testing.T) {
	var logs bytes.Buffer
	l := Loader{
		Env:    map[string]string{"OUT": "a.glsl"},
		Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	path := filepath.Join(t.TempDir(), "p.hcl")
	require.NoError(t, os.WriteFile(path, []byte("output = \"${env.OUT}\"\npls_in \"a\" {\n  format = \"r32f\"\n}\n"), 0o600))

	p, err := l.Load(path)
	require.NoError(t, err)
	require.Equal(t, "a.glsl", *p.Output)
	require.Equal(t, "r32f", p.PLSIn[0].Format)
	require.Contains(t, logs.String(), "loading profile")
	require.Contains(t, logs.String(), "pls_in=1")
}
