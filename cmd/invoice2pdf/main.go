package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Version is set at build time via ldflags.
var Version = "dev"

var ErrUnknownCommand = errors.New("unknown command")

func main() {
	os.Exit(runMain(os.Args, DefaultDeps()))
}

// runMain dispatches args[1] and returns the process exit code. With no
// command, or with flags only, it serves.
func runMain(args []string, deps *Dependencies) int {
	cmd, rest := "serve", args[1:]
	if len(rest) > 0 && (!strings.HasPrefix(rest[0], "-") || rest[0] == "-h" || rest[0] == "--help") {
		cmd, rest = rest[0], rest[1:]
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case "serve":
		err = runServe(ctx, rest, deps)
	case "render":
		err = runRender(ctx, rest, deps)
	case "config":
		err = runConfig(rest, deps)
	case "version":
		fmt.Fprintf(deps.Stdout, "invoice2pdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, deps)
		return ExitSuccess
	default:
		fmt.Fprintf(deps.Stderr, "%v: %s\n\n", ErrUnknownCommand, cmd)
		printUsage(deps.Stderr)
		return ExitUsage
	}

	if errors.Is(err, errHelpRequested) {
		runHelp([]string{cmd}, deps)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}
