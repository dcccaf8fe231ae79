// Featureplan is an interactive requirements-elicitation agent.
//
// It holds a structured product conversation with a Gemini model,
// then distills the transcript into a feature plan, an execution
// spec, and standing agent instructions for downstream coding agents.
// Configuration is loaded from a single YAML file discovered
// automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	featureplan <idea...>        Run a planning session for a feature idea
//	featureplan plan <idea...>   Same, with the command spelled out
//	featureplan init [dir]       Initialize a working directory with defaults
//	featureplan usage            Show token usage and cost totals
//	featureplan version          Print version and build information
//	featureplan -o json version  Output version information as JSON
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/featureplan/featureplan/internal/buildinfo"
	"github.com/featureplan/featureplan/internal/config"
)

// main is intentionally minimal. It constructs the OS-level environment
// (context, stdio, argv) and delegates immediately to [run]. This keeps
// os.Exit, os.Stdin, and os.Args out of the application logic so the
// full session lifecycle can be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run is the real entry point for the featureplan command. All OS-level
// dependencies are injected as parameters:
//
//   - ctx controls the lifetime of the process.
//   - stdin feeds the interactive conversation loop.
//   - stdout receives conversation output and artifacts notices; stderr
//     receives structured logs and fatal error messages.
//   - args is os.Args[1:] — parsed manually rather than with the flag
//     package to avoid global state that interferes with parallel tests.
//
// run returns nil on clean completion and a non-nil error for any
// failure. The caller (main) is responsible for printing the error and
// exiting.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	var configPath string
	var outputFmt string // "text" (default) or "json"
	var command string
	var cmdArgs []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++ // skip the value
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case (args[i] == "-o" || args[i] == "--output") && i+1 < len(args):
			outputFmt = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-o="):
			outputFmt = strings.TrimPrefix(args[i], "-o=")
		case strings.HasPrefix(args[i], "--output="):
			outputFmt = strings.TrimPrefix(args[i], "--output=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			if command != "" {
				cmdArgs = append(cmdArgs, args[i])
			} else {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
		}
	}

	if outputFmt == "" {
		outputFmt = "text"
	}
	if outputFmt != "text" && outputFmt != "json" {
		return fmt.Errorf("unknown output format: %q (expected text or json)", outputFmt)
	}

	switch command {
	case "plan":
		if len(cmdArgs) == 0 {
			return fmt.Errorf("usage: featureplan plan <idea>")
		}
		return runPlan(ctx, stdin, stdout, stderr, configPath, strings.Join(cmdArgs, " "))
	case "init":
		dir := "."
		if len(cmdArgs) > 0 {
			dir = cmdArgs[0]
		}
		return runInit(stdout, dir)
	case "usage":
		return runUsage(stdout, configPath)
	case "version":
		return runVersion(stdout, outputFmt)
	case "":
		printUsage(stdout)
		return fmt.Errorf("no feature idea provided")
	default:
		// Anything that is not a known command is the start of a
		// feature idea: `featureplan add csv export` works without
		// spelling out the plan subcommand.
		idea := strings.Join(append([]string{command}, cmdArgs...), " ")
		return runPlan(ctx, stdin, stdout, stderr, configPath, idea)
	}
}

// runVersion prints build metadata in the requested output format.
func runVersion(w io.Writer, outputFmt string) error {
	info := buildinfo.Info()
	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintln(w, buildinfo.String())
	// Print fields in a stable order for human readability.
	for _, k := range []string{"version", "git_commit", "git_branch", "build_time", "go_version", "os", "arch"} {
		if v, ok := info[k]; ok {
			fmt.Fprintf(w, "  %-12s %s\n", k+":", v)
		}
	}
	return nil
}

// printUsage writes the top-level help text to w. It is called when
// featureplan is invoked with no arguments, or with -h / --help.
func printUsage(w io.Writer) error {
	fmt.Fprintln(w, "Featureplan - Interactive Product Requirements Agent")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: featureplan [flags] <idea>")
	fmt.Fprintln(w, "       featureplan [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  plan <idea>  Run an interactive planning session for a feature idea")
	fmt.Fprintln(w, "  init [dir]   Initialize working directory with defaults (default: .)")
	fmt.Fprintln(w, "  usage        Show token usage and cost totals")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <path>    Path to config file (default: auto-discover)")
	fmt.Fprintln(w, "  -o, --output fmt  Output format: text (default) or json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config search order:")
	fmt.Fprintln(w, "  ./featureplan.yaml, ~/.config/featureplan/config.yaml")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "The Gemini API key is read from the config file, the %s\n", config.CredentialVar)
	fmt.Fprintln(w, "environment variable, or a local .env file, in that order.")
	return nil
}

// newLogger builds a slog.Logger writing to w at the given level.
func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// loadConfig resolves and loads the configuration file. When no file is
// found anywhere in the search path, built-in defaults are used — the
// tool is fully functional with nothing but an API key in the
// environment.
func loadConfig(explicit string) (*config.Config, string, error) {
	cfgPath, err := config.FindConfig(explicit)
	if err != nil {
		return nil, "", err
	}
	if cfgPath == "" {
		return config.Default(), "", nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	return cfg, cfgPath, nil
}
