// cmd/edpy is the command-line front end for the EdPy compiler and token
// assembler: `compile` runs the full source-to-image pipeline, `assemble`
// runs just the token assembler against a pre-generated listing, and
// `serve` starts a loader console for streaming a WAV image to a browser
// tab over websocket.
package main

import (
	"fmt"
	"net/http"
	"os"

	"edpy/internal/cli"
	"edpy/internal/loader"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "compile":
		opt, err := cli.ParseCompileArgs(args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return cli.RunCompile(opt, os.Stdout)
	case "assemble":
		opt, err := cli.ParseAssembleArgs(args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return cli.RunAssemble(opt, os.Stdout)
	case "serve":
		return runServe(args[1:])
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		printUsage()
		return 1
	}
}

func runServe(args []string) int {
	addr := ":8787"
	if len(args) > 0 {
		addr = args[0]
	}
	console := loader.NewConsole()
	defer console.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", console.Handler())
	fmt.Fprintf(os.Stdout, "loader console listening on %s (connect a browser tab to /ws)\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  edpy compile LANG SRC [-c] [-s] [-a LISTING] [-b BIN] [-w] [-o json|console|both|test] [-l error|warn|top|info|verbose|debug] [-d DUMPMASK] [-x pass|fail] [-telemetry DSN]
  edpy assemble SRC [-b BIN] [-p] [-w WAV] [-l level] [-r]
  edpy serve [addr]`)
}
