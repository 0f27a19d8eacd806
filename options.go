// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spir2cross

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/spir2cross/cmdline"
	"github.com/gogpu/spir2cross/profile"
	"github.com/gogpu/spir2cross/remap"
)

type flag = cmdline.Flag[Config]

// toggle builds a flag without arguments.
func toggle(name, usage string, set func(Config) Config) flag {
	return flag{
		Name:  name,
		Usage: usage,
		Apply: func(c Config, _ *cmdline.Cursor) (Config, cmdline.Outcome, error) {
			return set(c), cmdline.Continue, nil
		},
	}
}

// Options returns the command-line flag table in usage order.
func Options() []cmdline.Flag[Config] {
	return optionTable(slog.Default())
}

// optionTable builds the flag table. logger receives the debug records of
// profile loading.
func optionTable(logger *slog.Logger) []cmdline.Flag[Config] {
	return []cmdline.Flag[Config]{
		{
			Name:  "--help",
			Usage: "print usage and exit",
			Apply: func(c Config, _ *cmdline.Cursor) (Config, cmdline.Outcome, error) {
				c.Help = true
				return c, cmdline.Stop, nil
			},
		},
		{
			Name:  "--output",
			Arity: 1,
			Args:  "<output path>",
			Usage: "write generated source to a file instead of stdout",
			Apply: func(c Config, args *cmdline.Cursor) (Config, cmdline.Outcome, error) {
				path, err := args.NextString()
				if err != nil {
					return c, cmdline.Continue, err
				}
				c.Output = path
				return c, cmdline.Continue, nil
			},
		},
		toggle("--es", "generate GLSL ES", func(c Config) Config {
			c.ES, c.ESSet = true, true
			return c
		}),
		toggle("--no-es", "generate desktop GLSL", func(c Config) Config {
			c.ES, c.ESSet = false, true
			return c
		}),
		{
			Name:  "--version",
			Arity: 1,
			Args:  "<GLSL version>",
			Usage: "target GLSL version, overriding the module's",
			Apply: func(c Config, args *cmdline.Cursor) (Config, cmdline.Outcome, error) {
				v, err := args.NextUint()
				if err != nil {
					return c, cmdline.Continue, err
				}
				c.Version, c.VersionSet = v, true
				return c, cmdline.Continue, nil
			},
		},
		toggle("--dump-resources", "print reflected resources to stderr", func(c Config) Config {
			c.DumpResources = true
			return c
		}),
		toggle("--force-temporary", "force every expression into a temporary", func(c Config) Config {
			c.ForceTemporary = true
			return c
		}),
		toggle("--cpp", "generate C++ instead of GLSL", func(c Config) Config {
			c.CPP = true
			return c
		}),
		toggle("--flatten-ubo", "emit uniform buffers as plain arrays", func(c Config) Config {
			c.FlattenUBO = true
			return c
		}),
		toggle("--fixup-clipspace", "remap clip-space depth in vertex shaders", func(c Config) Config {
			c.FixupClipSpace = true
			return c
		}),
		{
			Name:  "--iterations",
			Arity: 1,
			Args:  "<iter>",
			Usage: "run code generation this many times",
			Apply: func(c Config, args *cmdline.Cursor) (Config, cmdline.Outcome, error) {
				n, err := args.NextUint()
				if err != nil {
					return c, cmdline.Continue, err
				}
				c.Iterations = n
				return c, cmdline.Continue, nil
			},
		},
		plsFlag("--pls-in", "<format> <input-name>", "bind a stage or subpass input to pixel local storage", Config.withPLSIn),
		plsFlag("--pls-out", "<format> <output-name>", "bind a stage output to pixel local storage", Config.withPLSOut),
		{
			Name:  "--config",
			Arity: 1,
			Args:  "<file.hcl>",
			Usage: "apply options from an HCL profile",
			Apply: func(c Config, args *cmdline.Cursor) (Config, cmdline.Outcome, error) {
				path, err := args.NextString()
				if err != nil {
					return c, cmdline.Continue, err
				}
				p, err := profile.Loader{Env: profile.Environ(), Logger: logger}.Load(path)
				if err != nil {
					return c, cmdline.Continue, err
				}
				if p.LogLevel != nil {
					if _, err := ParseLogLevel(*p.LogLevel); err != nil {
						return c, cmdline.Continue, fmt.Errorf("profile %s: %w", path, err)
					}
				}
				c = c.WithProfile(p)
				c.Profile = path
				return c, cmdline.Continue, nil
			},
		},
		{
			Name:  "--log-level",
			Arity: 1,
			Args:  "<level>",
			Usage: "debug, info, warn or error",
			Apply: func(c Config, args *cmdline.Cursor) (Config, cmdline.Outcome, error) {
				level, err := args.NextString()
				if err != nil {
					return c, cmdline.Continue, err
				}
				if _, err := ParseLogLevel(level); err != nil {
					return c, cmdline.Continue, err
				}
				c.LogLevel = level
				return c, cmdline.Continue, nil
			},
		},
		{
			Name:  "--spirv-cross",
			Arity: 1,
			Args:  "<path>",
			Usage: "code generator executable",
			Apply: func(c Config, args *cmdline.Cursor) (Config, cmdline.Outcome, error) {
				path, err := args.NextString()
				if err != nil {
					return c, cmdline.Continue, err
				}
				c.SpirvCross = path
				return c, cmdline.Continue, nil
			},
		},
	}
}

func plsFlag(name, args, usage string, add func(Config, remap.Request) Config) flag {
	return flag{
		Name:  name,
		Arity: 2,
		Args:  args,
		Usage: usage,
		Apply: func(c Config, cur *cmdline.Cursor) (Config, cmdline.Outcome, error) {
			format, err := cur.NextString()
			if err != nil {
				return c, cmdline.Continue, err
			}
			name, err := cur.NextString()
			if err != nil {
				return c, cmdline.Continue, err
			}
			return add(c, remap.ParseRequest(format, name)), cmdline.Continue, nil
		},
	}
}
