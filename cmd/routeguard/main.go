package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dshills/routeguard/internal/config"
	"github.com/dshills/routeguard/internal/schema"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

const toolName = "routeguard"

// Exit codes.
const (
	exitFailOn   = 2
	exitInput    = 3
	exitProvider = 4
	exitUpstream = 5
	exitReply    = 6
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// classify picks the exit code for a pipeline error, using fallback when the
// error carries no recognised type.
func classify(err error, fallback int) int {
	var (
		ie *schema.InvalidInputError
		se *schema.UpstreamServiceError
		fe *schema.UpstreamFormatError
		sc *schema.SchemaError
		re *schema.InvalidRequirementError
	)
	switch {
	case errors.As(err, &ie):
		return exitInput
	case errors.As(err, &se):
		return exitUpstream
	case errors.As(err, &fe), errors.As(err, &sc), errors.As(err, &re):
		return exitReply
	default:
		return fallback
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
	logFormat  string
}

// newLogger builds the process logger: text or JSON on w, debug level when
// verbose.
func newLogger(verbose bool, format string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// loadConfig reads the optional config file; failures are input errors.
func loadConfig(g *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, codeError(exitInput, "loading config: %s", err)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           toolName,
		Short:         "Quantify chargeback risk in retail routing guides",
		Long:          "routeguard extracts compliance requirements from retailer routing guides and estimates the fines a shipment is exposed to.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch g.logFormat {
			case "text", "json":
			default:
				return codeError(exitInput, "--log-format must be text or json, got %q", g.logFormat)
			}
			slog.SetDefault(newLogger(g.verbose, g.logFormat, os.Stderr))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML configuration file")
	pf.BoolVar(&g.verbose, "verbose", false, "Log processing steps at debug level")
	pf.StringVar(&g.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(
		newRetailersCmd(),
		newDetectCmd(),
		newPromptCmd(&g),
		newExtractCmd(&g),
		newAssessCmd(&g),
		newFineCmd(),
		newDiffCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// usage errors from cobra itself
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitInput)
	}
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return codeError(exitInput, "writing output file: %s", err)
		}
		return nil
	}
	if _, err := w.Write(data); err != nil {
		return codeError(exitInput, "writing output: %s", err)
	}
	// Ensure output ends with a newline for terminal friendliness.
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return nil
}
