// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spir2cross

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/spir2cross/backend"
	"github.com/gogpu/spir2cross/internal/shadertest"
	"github.com/gogpu/spir2cross/spirv"
)

const generated = "#version 310 es\nvoid main() {}\n"

// fakeRunner records every code generator invocation.
type fakeRunner struct {
	calls [][]string
	stdin [][]byte
	out   string
	err   error
}

func (f *fakeRunner) run(_ context.Context, name string, args []string, stdin []byte) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	f.stdin = append(f.stdin, stdin)
	if f.err != nil {
		return nil, []byte("error: bad module\n"), f.err
	}
	return []byte(f.out), nil, nil
}

func writeFixture(t *testing.T, opts shadertest.Options) (string, []uint32) {
	t.Helper()
	words, _ := shadertest.Fragment(opts)
	path := filepath.Join(t.TempDir(), "shader.spv")
	require.NoError(t, os.WriteFile(path, spirv.BytesFromWords(words), 0o600))
	return path, words
}

type streams struct {
	stdin  *bytes.Buffer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newStreams() streams {
	return streams{stdin: &bytes.Buffer{}, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
}

func (s streams) Streams() Streams {
	return Streams{Stdin: s.stdin, Stdout: s.stdout, Stderr: s.stderr}
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "want *ExitError, got %T: %v", err, err)
	return exitErr.Code
}

func TestMain_VersionAndES(t *testing.T) {
	path, words := writeFixture(t, shadertest.Options{})
	s := newStreams()
	fr := &fakeRunner{out: generated}

	err := Main(context.Background(), []string{"--version", "310", "--es", path}, s.Streams(), WithRunner(fr.run))
	require.NoError(t, err)
	require.Equal(t, generated, s.stdout.String())
	require.Len(t, fr.calls, 1)
	require.Equal(t, []string{backend.DefaultBinary, "--version", "310", "--es", "-"}, fr.calls[0])
	require.Equal(t, spirv.BytesFromWords(words), fr.stdin[0])
}

func TestMain_ModuleVersion(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{Language: spirv.SourceLanguageGLSL, Version: 450})
	s := newStreams()
	fr := &fakeRunner{out: generated}

	err := Main(context.Background(), []string{path, "--spirv-cross", "/opt/spirv-cross"}, s.Streams(), WithRunner(fr.run))
	require.NoError(t, err)
	require.Equal(t, []string{"/opt/spirv-cross", "--version", "450", "--no-es", "-"}, fr.calls[0])
}

func TestMain_UnknownFlag(t *testing.T) {
	s := newStreams()
	err := Main(context.Background(), []string{"--bogus"}, s.Streams())
	require.Equal(t, 1, exitCode(t, err))
	require.Contains(t, s.stderr.String(), `unknown flag "--bogus"`)
	require.Equal(t, 1, strings.Count(s.stderr.String(), "Usage: spir2cross"))
	require.Empty(t, s.stdout.String())
}

func TestMain_Help(t *testing.T) {
	s := newStreams()
	fr := &fakeRunner{}
	err := Main(context.Background(), []string{"--help", "ignored.spv"}, s.Streams(), WithRunner(fr.run))
	require.NoError(t, err)
	require.Contains(t, s.stderr.String(), "Usage: spir2cross")
	require.Empty(t, fr.calls)
}

func TestMain_MissingInput(t *testing.T) {
	s := newStreams()
	err := Main(context.Background(), []string{"--version", "310"}, s.Streams())
	require.Equal(t, 1, exitCode(t, err))
	require.ErrorIs(t, err, ErrMissingInput)
	require.Contains(t, s.stderr.String(), "Didn't specify input file.")
	require.Contains(t, s.stderr.String(), "Usage: spir2cross")
}

func TestMain_NoVersion(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	s := newStreams()
	fr := &fakeRunner{}
	err := Main(context.Background(), []string{path}, s.Streams(), WithRunner(fr.run))
	require.Equal(t, 1, exitCode(t, err))
	require.ErrorIs(t, err, ErrNoVersion)
	require.Contains(t, s.stderr.String(), "Didn't specify GLSL version and SPIR-V did not specify language.")
	require.Empty(t, fr.calls)
}

func TestMain_UnreadableInput(t *testing.T) {
	s := newStreams()
	fr := &fakeRunner{}
	missing := filepath.Join(t.TempDir(), "missing.spv")
	err := Main(context.Background(), []string{missing}, s.Streams(), WithRunner(fr.run))
	require.ErrorIs(t, err, ErrNoVersion)
	require.Contains(t, s.stderr.String(), "Failed to open SPIRV file: "+missing)
}

func TestMain_InvalidModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.spv")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, 0o600))
	s := newStreams()
	err := Main(context.Background(), []string{"--version", "310", path}, s.Streams())
	require.Equal(t, 1, exitCode(t, err))
	require.Contains(t, s.stderr.String(), "Failed to parse SPIR-V module")
}

func TestMain_PLSRemap(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	s := newStreams()
	fr := &fakeRunner{out: generated}

	err := Main(context.Background(), []string{
		"--version", "310", "--es",
		"--pls-in", "rgba8", "vColor",
		"--pls-in", "r32f", "uSubpass",
		"--pls-in", "rgba8", "nope",
		"--pls-out", "rgb10_a2", "FragColor",
		path,
	}, s.Streams(), WithRunner(fr.run))
	require.NoError(t, err)
	require.Equal(t, `Did not find stage input/output/target with name "nope".`+"\n", s.stderr.String())
	require.Equal(t, []string{
		backend.DefaultBinary, "--version", "310", "--es",
		"--pls-in", "rgba8", "vColor",
		"--pls-in", "r32f", "uSubpass",
		"--pls-out", "rgb10_a2", "FragColor",
		"-",
	}, fr.calls[0])
}

func TestMain_Profile(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	profilePath := filepath.Join(t.TempDir(), "p.hcl")
	require.NoError(t, os.WriteFile(profilePath, []byte("version = 300\nes = true\nforce_temporary = true\n"), 0o600))
	s := newStreams()
	fr := &fakeRunner{out: generated}

	err := Main(context.Background(), []string{"--config", profilePath, "--version", "450", path}, s.Streams(), WithRunner(fr.run))
	require.NoError(t, err)
	require.Equal(t, []string{backend.DefaultBinary, "--version", "450", "--es", "--force-temporary", "-"}, fr.calls[0])
}

func TestMain_DumpResources(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	s := newStreams()
	fr := &fakeRunner{out: generated}

	err := Main(context.Background(), []string{"--version", "310", "--dump-resources", path}, s.Streams(), WithRunner(fr.run))
	require.NoError(t, err)

	out := s.stderr.String()
	for _, want := range []string{
		"subpass inputs\n=============\n",
		"inputs\n=============\n",
		"ubos\n=============\n",
		"Active members in buffer: push\n",
		"Member #  1 (tint): Offset:   16, Range:   16\n",
	} {
		require.Contains(t, out, want)
	}
	require.Equal(t, generated, s.stdout.String())
}

func TestMain_FlattenAndOptions(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	s := newStreams()
	fr := &fakeRunner{out: generated}

	err := Main(context.Background(), []string{
		"--version", "450", "--flatten-ubo", "--fixup-clipspace", "--cpp", path,
	}, s.Streams(), WithRunner(fr.run))
	require.NoError(t, err)
	require.Equal(t, []string{
		backend.DefaultBinary, "--cpp", "--version", "450", "--no-es",
		"--fixup-clipspace", "--flatten-ubo", "-",
	}, fr.calls[0])
}

func TestMain_Iterations(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})

	s := newStreams()
	fr := &fakeRunner{out: generated}
	require.NoError(t, Main(context.Background(), []string{"--version", "310", "--iterations", "3", path}, s.Streams(), WithRunner(fr.run)))
	require.Len(t, fr.calls, 3)
	require.Equal(t, generated, s.stdout.String())

	s = newStreams()
	fr = &fakeRunner{out: generated}
	require.NoError(t, Main(context.Background(), []string{"--version", "310", "--iterations", "0", path}, s.Streams(), WithRunner(fr.run)))
	require.Empty(t, fr.calls)
	require.Empty(t, s.stdout.String())
}

func TestMain_Output(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	out := filepath.Join(t.TempDir(), "out.glsl")
	s := newStreams()
	fr := &fakeRunner{out: generated}

	require.NoError(t, Main(context.Background(), []string{"--version", "310", "--output", out, path}, s.Streams(), WithRunner(fr.run)))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, generated, string(got))
	require.Empty(t, s.stdout.String())
}

func TestMain_OutputUnwritable(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "out.glsl")
	s := newStreams()
	fr := &fakeRunner{out: generated}

	err := Main(context.Background(), []string{"--version", "310", "--output", out, path}, s.Streams(), WithRunner(fr.run))
	require.Equal(t, 1, exitCode(t, err))
	require.Contains(t, s.stderr.String(), "Failed to write file")
}

func TestMain_BackendFailure(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	s := newStreams()
	fr := &fakeRunner{err: errors.New("exit status 1")}

	err := Main(context.Background(), []string{"--version", "310", path}, s.Streams(), WithRunner(fr.run))
	require.Equal(t, 1, exitCode(t, err))
	var beErr *backend.Error
	require.ErrorAs(t, err, &beErr)
	require.Equal(t, "error: bad module", beErr.Stderr)
	require.Contains(t, s.stderr.String(), "error: bad module")
	require.Empty(t, s.stdout.String())
}

func TestMain_Stdin(t *testing.T) {
	_, words := writeFixture(t, shadertest.Options{Language: spirv.SourceLanguageESSL, Version: 310})
	s := newStreams()
	s.stdin.Write(spirv.BytesFromWords(words))
	fr := &fakeRunner{out: generated}

	require.NoError(t, Main(context.Background(), []string{"-"}, s.Streams(), WithRunner(fr.run)))
	require.Equal(t, []string{backend.DefaultBinary, "--version", "310", "--es", "-"}, fr.calls[0])
	require.Equal(t, spirv.BytesFromWords(words), fr.stdin[0])
}

func TestRun_DirectConfig(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	cfg := DefaultConfig()
	cfg.Input = path
	cfg.Version, cfg.VersionSet = 100, true
	cfg.ES, cfg.ESSet = true, true
	s := newStreams()
	fr := &fakeRunner{out: generated}

	require.NoError(t, Run(context.Background(), cfg, s.Streams(), WithRunner(fr.run)))
	require.Equal(t, []string{backend.DefaultBinary, "--version", "100", "--es", "-"}, fr.calls[0])
}

func TestExitError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&ExitError{Code: 2, Err: cause})
	require.Equal(t, "exit status 2: boom", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestMain_DebugLogging(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	s := newStreams()
	fr := &fakeRunner{out: generated}
	before := slog.Default()

	err := Main(context.Background(), []string{"--log-level", "debug", "--version", "310", path}, s.Streams(), WithRunner(fr.run))
	require.NoError(t, err)
	require.Contains(t, s.stderr.String(), `msg="module read"`)
	require.Contains(t, s.stderr.String(), `msg="running code generator"`)
	require.Same(t, before, slog.Default(), "the process logger is left alone")
}

func TestRun_WithLogger(t *testing.T) {
	path, _ := writeFixture(t, shadertest.Options{})
	cfg := DefaultConfig()
	cfg.Input = path
	cfg.Version, cfg.VersionSet = 310, true
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newStreams()
	fr := &fakeRunner{out: generated}

	require.NoError(t, Run(context.Background(), cfg, s.Streams(), WithRunner(fr.run), WithLogger(logger)))
	require.Contains(t, logs.String(), "code generation options")
	require.Empty(t, s.stderr.String())
}
