// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package cmdline

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testConfig struct {
	Input  string
	Output string
	Count  uint32
	Scale  float64
	Pairs  [][2]string
	Help   bool
}

func testDispatcher() *Dispatcher[testConfig] {
	d := New(
		Flag[testConfig]{Name: "--help", Usage: "show help", Apply: func(c testConfig, _ *Cursor) (testConfig, Outcome, error) {
			c.Help = true
			return c, Stop, nil
		}},
		Flag[testConfig]{Name: "--output", Arity: 1, Args: "<path>", Usage: "output path", Apply: func(c testConfig, args *Cursor) (testConfig, Outcome, error) {
			path, err := args.NextString()
			if err != nil {
				return c, Continue, err
			}
			c.Output = path
			return c, Continue, nil
		}},
		Flag[testConfig]{Name: "--count", Arity: 1, Args: "<n>", Apply: func(c testConfig, args *Cursor) (testConfig, Outcome, error) {
			n, err := args.NextUint()
			if err != nil {
				return c, Continue, err
			}
			c.Count = n
			return c, Continue, nil
		}},
		Flag[testConfig]{Name: "--scale", Arity: 1, Args: "<x>", Apply: func(c testConfig, args *Cursor) (testConfig, Outcome, error) {
			x, err := args.NextDouble()
			if err != nil {
				return c, Continue, err
			}
			c.Scale = x
			return c, Continue, nil
		}},
		Flag[testConfig]{Name: "--pair", Arity: 2, Args: "<a> <b>", Apply: func(c testConfig, args *Cursor) (testConfig, Outcome, error) {
			a, _ := args.NextString()
			b, _ := args.NextString()
			c.Pairs = append(c.Pairs, [2]string{a, b})
			return c, Continue, nil
		}},
	)
	d.PositionalName = "file"
	d.Positional = func(c testConfig, tok string) (testConfig, error) {
		c.Input = tok
		return c, nil
	}
	return d
}

func TestParse_Success(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   testConfig
		state  State
	}{
		{
			name:  "empty",
			want:  testConfig{Count: 1},
			state: Completed,
		},
		{
			name:   "all flags",
			tokens: []string{"--output", "out.txt", "in.spv", "--count", "7", "--scale", "0.5", "--pair", "a", "b", "--pair", "c", "d"},
			want: testConfig{
				Input:  "in.spv",
				Output: "out.txt",
				Count:  7,
				Scale:  0.5,
				Pairs:  [][2]string{{"a", "b"}, {"c", "d"}},
			},
			state: Completed,
		},
		{
			name:   "last wins",
			tokens: []string{"--output", "a", "--output", "b", "x", "y"},
			want:   testConfig{Input: "y", Output: "b", Count: 1},
			state:  Completed,
		},
		{
			name:   "stdin dash is positional",
			tokens: []string{"-"},
			want:   testConfig{Input: "-", Count: 1},
			state:  Completed,
		},
		{
			name:   "help ends parsing",
			tokens: []string{"--help", "--bogus", "--count"},
			want:   testConfig{Help: true, Count: 1},
			state:  Ended,
		},
		{
			name:   "help after flags",
			tokens: []string{"--count", "3", "--help", "ignored.spv"},
			want:   testConfig{Help: true, Count: 3},
			state:  Ended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDispatcher()
			calls := 0
			d.OnError = func(error) { calls++ }

			got, state, err := d.Parse(testConfig{Count: 1}, tt.tokens)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if state != tt.state {
				t.Errorf("state = %v, want %v", state, tt.state)
			}
			if !state.OK() {
				t.Errorf("state %v not OK", state)
			}
			if calls != 0 {
				t.Errorf("OnError called %d times", calls)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Failure(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		kind   ErrorKind
		flag   string
		want   testConfig
	}{
		{
			name:   "unknown flag",
			tokens: []string{"--output", "o", "--bogus", "--count", "5"},
			kind:   ErrUnknownFlag,
			want:   testConfig{Output: "o", Count: 1},
		},
		{
			name:   "missing value",
			tokens: []string{"--output"},
			kind:   ErrMissingValue,
			flag:   "--output",
			want:   testConfig{Count: 1},
		},
		{
			name:   "missing second value",
			tokens: []string{"--pair", "a"},
			kind:   ErrMissingValue,
			flag:   "--pair",
			want:   testConfig{Count: 1},
		},
		{
			name:   "out of range keeps count",
			tokens: []string{"--count", "99999999999"},
			kind:   ErrOutOfRange,
			flag:   "--count",
			want:   testConfig{Count: 1},
		},
		{
			name:   "invalid number",
			tokens: []string{"in.spv", "--count", "seven"},
			kind:   ErrInvalidNumber,
			flag:   "--count",
			want:   testConfig{Input: "in.spv", Count: 1},
		},
		{
			name:   "invalid double",
			tokens: []string{"--scale", "x"},
			kind:   ErrInvalidNumber,
			flag:   "--scale",
			want:   testConfig{Count: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDispatcher()
			var seen []error
			d.OnError = func(err error) { seen = append(seen, err) }

			got, state, err := d.Parse(testConfig{Count: 1}, tt.tokens)
			if state != Failed || state.OK() {
				t.Errorf("state = %v, want Failed", state)
			}
			if len(seen) != 1 {
				t.Fatalf("OnError called %d times, want 1", len(seen))
			}
			if seen[0] != err {
				t.Errorf("OnError got %v, Parse returned %v", seen[0], err)
			}

			var argErr *ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("error %T is not *ArgumentError", err)
			}
			if argErr.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", argErr.Kind, tt.kind)
			}
			if argErr.Flag != tt.flag {
				t.Errorf("Flag = %q, want %q", argErr.Flag, tt.flag)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_NoPositional(t *testing.T) {
	d := testDispatcher()
	d.Positional = nil

	_, state, err := d.Parse(testConfig{}, []string{"in.spv"})
	if state != Failed {
		t.Errorf("state = %v, want Failed", state)
	}
	if !IsKind(err, ErrUnknownFlag) {
		t.Errorf("error = %v, want ErrUnknownFlag", err)
	}
}

func TestParse_ApplyError(t *testing.T) {
	sentinel := errors.New("boom")
	d := New(Flag[testConfig]{Name: "--fail", Apply: func(c testConfig, _ *Cursor) (testConfig, Outcome, error) {
		c.Output = "partial"
		return c, Continue, sentinel
	}})

	got, state, err := d.Parse(testConfig{}, []string{"--fail"})
	if state != Failed {
		t.Errorf("state = %v, want Failed", state)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error = %v, want wrapped sentinel", err)
	}
	if !strings.HasPrefix(err.Error(), "--fail: ") {
		t.Errorf("error %q not attributed to the flag", err)
	}
	if got.Output != "" {
		t.Errorf("failing flag's delta applied: Output = %q", got.Output)
	}
}

func TestParse_DoesNotMutateInput(t *testing.T) {
	d := testDispatcher()
	in := testConfig{Count: 1}
	if _, _, err := d.Parse(in, []string{"--count", "9", "--output", "x"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if in.Count != 1 || in.Output != "" {
		t.Errorf("input config mutated: %+v", in)
	}
}

func TestRegister_Panics(t *testing.T) {
	apply := func(c testConfig, _ *Cursor) (testConfig, Outcome, error) { return c, Continue, nil }
	tests := []struct {
		name string
		flag Flag[testConfig]
	}{
		{"duplicate", Flag[testConfig]{Name: "--help", Apply: apply}},
		{"no name", Flag[testConfig]{Apply: apply}},
		{"no apply", Flag[testConfig]{Name: "--x"}},
		{"negative arity", Flag[testConfig]{Name: "--y", Arity: -1, Apply: apply}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register did not panic")
				}
			}()
			testDispatcher().Register(tt.flag)
		})
	}
}

func TestDispatcher_Flags(t *testing.T) {
	d := testDispatcher()
	var names []string
	for _, f := range d.Flags() {
		names = append(names, f.Name)
	}
	want := []string{"--help", "--output", "--count", "--scale", "--pair"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Flags order mismatch (-want +got):\n%s", diff)
	}
	if f, ok := d.Lookup("--pair"); !ok || f.Arity != 2 {
		t.Errorf("Lookup(--pair) = %+v, %v", f, ok)
	}
	if _, ok := d.Lookup("--nope"); ok {
		t.Error("Lookup(--nope) found a flag")
	}
}

func TestDispatcher_Usage(t *testing.T) {
	var b strings.Builder
	if err := testDispatcher().Usage(&b, "tool"); err != nil {
		t.Fatalf("Usage failed: %v", err)
	}
	lines := strings.Split(b.String(), "\n")
	want := "Usage: tool [file] [--help] [--output <path>] [--count <n>] [--scale <x>] [--pair <a> <b>]"
	if lines[0] != want {
		t.Errorf("synopsis = %q, want %q", lines[0], want)
	}
	if !strings.Contains(b.String(), "--output <path>") || !strings.Contains(b.String(), "output path") {
		t.Errorf("usage missing flag description:\n%s", b.String())
	}
}

func TestState_String(t *testing.T) {
	for state, want := range map[State]string{
		Running:   "Running",
		Completed: "Completed",
		Ended:     "Ended",
		Failed:    "Failed",
		State(9):  "Unknown",
	} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestParse_Logger(t *testing.T) {
	var logs bytes.Buffer
	d := testDispatcher()
	d.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, _, err := d.Parse(testConfig{}, []string{"--output", "a.txt", "in.spv"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, want := range []string{"name=--output", "token=in.spv"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs missing %q:\n%s", want, logs.String())
		}
	}
}
