// Package cli implements the edpy command-line front end: argument parsing
// and file I/O for the compile and assemble subcommands. The pipeline
// stages (parser, optimizer, codegen, assembler) know nothing of flags or
// files; this package is the only thing that touches os.Args and the
// filesystem, using a hand-rolled argument loop in sentra's CLI style
// rather than reaching for a flag-parsing framework.
package cli

import (
	"fmt"

	"edpy/internal/diag"
)

// CompileOptions holds the parsed flags for `edpy compile`.
type CompileOptions struct {
	Lang         string
	Source       string
	ListingOnly  bool // -c: stop after codegen, do not assemble
	Silent       bool // -s: suppress diagnostics below error level
	ListingPath  string
	BinPath      string
	WAV          bool
	Mode         diag.Mode
	Level        diag.Level
	DumpMask     string
	ExpectedExit string // -x pass|fail, for test harness use
	TelemetryDSN string
}

// AssembleOptions holds the parsed flags for `edpy assemble`.
type AssembleOptions struct {
	Source   string
	BinPath  string
	Print    bool // -p: print the header fields to stdout
	WAVPath  string
	Level    diag.Level
	Raw      bool // -r: emit the bare token stream with no header
}

// ParseCompileArgs parses `compile LANG SRC [flags...]`.
func ParseCompileArgs(args []string) (*CompileOptions, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: edpy compile LANG SRC [-c] [-s] [-a LISTING] [-b BIN] [-w] [-o MODE] [-l LEVEL] [-d DUMPMASK] [-x pass|fail]")
	}
	opt := &CompileOptions{
		Lang:   args[0],
		Source: args[1],
		Mode:   diag.ModeConsole,
		Level:  diag.LevelTop,
	}
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		next := func() (string, error) {
			i++
			if i >= len(rest) {
				return "", fmt.Errorf("flag %s requires a value", a)
			}
			return rest[i], nil
		}
		switch a {
		case "-c":
			opt.ListingOnly = true
		case "-s":
			opt.Silent = true
		case "-a":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opt.ListingPath = v
		case "-b":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opt.BinPath = v
		case "-w":
			opt.WAV = true
		case "-o":
			v, err := next()
			if err != nil {
				return nil, err
			}
			m, err := diag.ParseMode(v)
			if err != nil {
				return nil, err
			}
			opt.Mode = m
		case "-l":
			v, err := next()
			if err != nil {
				return nil, err
			}
			lv, err := diag.ParseLevel(v)
			if err != nil {
				return nil, err
			}
			opt.Level = lv
		case "-d":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opt.DumpMask = v
		case "-x":
			v, err := next()
			if err != nil {
				return nil, err
			}
			if v != "pass" && v != "fail" {
				return nil, fmt.Errorf("-x expects pass or fail, got %q", v)
			}
			opt.ExpectedExit = v
		case "-telemetry":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opt.TelemetryDSN = v
		default:
			return nil, fmt.Errorf("unrecognized flag %q", a)
		}
	}
	return opt, nil
}

// ParseAssembleArgs parses `assemble SRC [flags...]`.
func ParseAssembleArgs(args []string) (*AssembleOptions, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: edpy assemble SRC [-b BIN] [-p] [-w WAV] [-l LEVEL] [-r]")
	}
	opt := &AssembleOptions{
		Source: args[0],
		Level:  diag.LevelTop,
	}
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		next := func() (string, error) {
			i++
			if i >= len(rest) {
				return "", fmt.Errorf("flag %s requires a value", a)
			}
			return rest[i], nil
		}
		switch a {
		case "-b":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opt.BinPath = v
		case "-p":
			opt.Print = true
		case "-w":
			v, err := next()
			if err != nil {
				return nil, err
			}
			opt.WAVPath = v
		case "-l":
			v, err := next()
			if err != nil {
				return nil, err
			}
			lv, err := diag.ParseLevel(v)
			if err != nil {
				return nil, err
			}
			opt.Level = lv
		case "-r":
			opt.Raw = true
		default:
			return nil, fmt.Errorf("unrecognized flag %q", a)
		}
	}
	return opt, nil
}
