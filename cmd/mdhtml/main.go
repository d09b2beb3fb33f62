package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"

	mdhtml "github.com/alnah/go-mdhtml"
	"github.com/alnah/go-mdhtml/internal/config"
	"github.com/alnah/go-mdhtml/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdConvert    = "convert"
	cmdVersion    = "version"
	cmdCompletion = "completion"
	cmdHelp       = "help"
)

// errUsage marks command-line misuse.
var errUsage = errors.New("invalid usage")

func main() {
	env := DefaultEnv()

	undo := setMaxProcs(newLogger(env.Stderr, false, hasVerboseFlag(os.Args[1:])))
	code := runMain(os.Args, env)
	undo()

	os.Exit(code)
}

// hasVerboseFlag reports whether -v or --verbose appears before "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}

// runMain dispatches the command line and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case cmdConvert:
		return reportError(runConvertCmd(rest, env), env)
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "mdhtml %s\n", Version)
		return ExitSuccess
	case cmdCompletion:
		return reportError(runCompletion(rest, env), env)
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runConvertCmd parses convert flags and runs the conversion under a
// signal-aware context.
func runConvertCmd(args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected at most one input, got %d", errUsage, len(positional))
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	return runConvert(ctx, positional, flags, env)
}

// reportError prints err with any applicable hint and maps it to an exit code.
func reportError(err error, env *Environment) int {
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error) string {
	var notFound *configNotFoundError
	switch {
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(config.SearchPaths(notFound.name))
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, config.ErrMissingStyle):
		return hints.ForMissingStyle(config.DefaultHighlightStyle)
	case errors.Is(err, mdhtml.ErrInvalidHighlightStyle):
		return hints.ForHighlightStyle(styles.Names())
	case errors.Is(err, ErrNoInput):
		return hints.ForNoInput()
	case errors.Is(err, ErrWriteHTML):
		return hints.ForOutputDirectory()
	}
	return ""
}
