// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package cmdline parses flat argument lists into a configuration value.
//
// A Dispatcher holds a table of Flag descriptions. Each flag names the
// token that selects it, the number of tokens it consumes and a pure Apply
// function from the current configuration to the next one. Parse folds the
// tokens over the table:
//
//	type config struct{ out string; help bool }
//
//	d := cmdline.New(
//		cmdline.Flag[config]{Name: "--output", Arity: 1, Apply: func(c config, args *cmdline.Cursor) (config, cmdline.Outcome, error) {
//			path, err := args.NextString()
//			c.out = path
//			return c, cmdline.Continue, err
//		}},
//		cmdline.Flag[config]{Name: "--help", Apply: func(c config, _ *cmdline.Cursor) (config, cmdline.Outcome, error) {
//			c.help = true
//			return c, cmdline.Stop, nil
//		}},
//	)
//	cfg, state, err := d.Parse(config{}, os.Args[1:])
//
// A parse ends in one of three states: Completed when the tokens run out,
// Ended when a flag returns Stop, and Failed when a token cannot be
// consumed. Failures are *ArgumentError values unless a flag's Apply
// returns its own error.
package cmdline
