// Package cli implements the cobra-based CLI commands for yolosplit.
//
// Each subcommand (split, config) is defined in its own file within this
// package. This file defines the root command, the global flags, and the
// error-to-exit-code translation.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/yolosplit/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command.
var (
	// jsonOutput switches command output to a single JSON document on stdout.
	jsonOutput bool

	// verbose lowers the log level to debug so every pair is traced on stderr.
	verbose bool

	// configPath points at an optional YAML or JSONC config file.
	configPath string
)

// logger is built in PersistentPreRunE once flags are parsed.
var logger = zap.NewNop()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It provides help
// text and global flags; the work happens in subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "yolosplit",
		Short: "Split a flat image/label directory into a YOLO train/val tree",
		Long: `yolosplit copies image/annotation pairs listed in two manifest files into
the directory layout expected by YOLO object-detection training:

  dataset_yolo/images/train  dataset_yolo/labels/train
  dataset_yolo/images/val    dataset_yolo/labels/val

Pairs whose image or label is missing are reported and skipped.`,

		// SilenceUsage prevents cobra from printing usage on every error;
		// usage is only useful for flag mistakes, which cobra reports itself.
		SilenceUsage: true,

		// SilenceErrors lets Execute print errors in text or JSON form
		// instead of cobra's default "Error: ..." line.
		SilenceErrors: true,

		// Version enables the --version flag.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRunE runs before every subcommand, after flag parsing,
		// so the logger level reflects --verbose.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "failed to initialize logger", err)
			}
			logger = l
			return nil
		},
	}

	// Persistent flags are inherited by all subcommands.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.yaml, .yml, .json, .jsonc)")

	// Register subcommands.
	rootCmd.AddCommand(NewSplitCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// An interrupt cancels the command context; the splitter stops before the
// next pair. CLIError values carry their own exit codes; other errors exit 1.
func Execute(rootCmd *cobra.Command) {
	// Ctrl-C cancels the context handed to every RunE via cmd.Context().
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	// Flush buffered log records before a possible os.Exit below.
	_ = logger.Sync()

	if err != nil {
		// errors.As walks the wrap chain, so a CLIError wrapped with
		// fmt.Errorf("...: %w") still yields its exit code.
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Unknown errors (including cobra flag errors) map to exit 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		// Build a structured error object for machine consumption.
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// stdout is reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog emits a debug record. It only shows up with --verbose.
func VerboseLog(format string, args ...interface{}) {
	logger.Sugar().Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
