// Package cmd implements the roadmap CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/config"
	"github.com/twiced-technology-gmbh/roadmap/internal/document"
	"github.com/twiced-technology-gmbh/roadmap/internal/logging"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagTable    bool
	flagCompact  bool
	flagNoColor  bool
	flagConfig   string
	flagVerbose  bool
	flagLogJSON  bool
	flagLogLevel = logging.Level{Level: logging.DefaultLevel}
)

// colorEnabled is decided once per run in PersistentPreRun.
var colorEnabled = true

var rootCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Extract tasks, dependencies and stop markers from Markdown roadmaps",
	Long: `roadmap reads a Markdown execution roadmap made of "### Task N.M: Name" sections
and turns it into data: a dependency-ordered task queue for a scheduler, per-task
fields for shell scripts, and human review checkpoints inserted after selected tasks.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
			colorEnabled = false
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file or .roadmap directory")
	rootCmd.PersistentFlags().Var(&flagLogLevel, "log-level", "diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "shorthand for --log-level debug")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "write diagnostic logs as JSON")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv(output.EnvVar) == "json"
	}
	os.Exit(reportError(os.Stdout, os.Stderr, err, jsonMode))
}

// reportError writes err the way the CLI presents failures and returns the
// process exit code.
func reportError(stdout, stderr io.Writer, err error, jsonMode bool) int {
	// Handle SilentError: exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		return silent.Code
	}

	var cliErr *clierr.Error
	isCLIErr := errors.As(err, &cliErr)

	if jsonMode {
		if isCLIErr {
			output.JSONError(stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			return cliErr.ExitCode()
		}
		// Unknown error: wrap as INTERNAL_ERROR.
		output.JSONError(stdout, clierr.InternalError, err.Error(), nil)
		return 2 //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if isCLIErr {
		return cliErr.ExitCode()
	}
	return 1
}

// exactArgs is cobra.ExactArgs with the usage line as the error message.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError(cmd)
		}
		return nil
	}
}

// minArgs is cobra.MinimumNArgs with the usage line as the error message.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError(cmd)
		}
		return nil
	}
}

func usageError(cmd *cobra.Command) error {
	return clierr.Newf(clierr.InvalidInput, "usage: %s", cmd.UseLine()).
		WithDetails(map[string]any{"command": cmd.Name()})
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// newLogger returns the diagnostic logger writing to w (the command's stderr).
func newLogger(w io.Writer) *log.Logger {
	level := flagLogLevel.Level
	if flagVerbose {
		level = log.DebugLevel
	}
	return logging.New(w, level, flagLogJSON)
}

// resolveConfig returns the config governing the document at docPath:
// --config when given, else the nearest .roadmap directory above the
// document, else the built-in defaults.
func resolveConfig(docPath string) (*config.Config, error) {
	start := "."
	if docPath != "" {
		start = filepath.Dir(docPath)
	}
	return config.Resolve(flagConfig, start)
}

// loadSection reads the roadmap and returns the section for the task id argument.
func loadSection(path, idArg string) (*roadmap.Section, error) {
	id, err := roadmap.ParseTaskID(idArg)
	if err != nil {
		return nil, err
	}
	f, err := document.Read(path)
	if err != nil {
		return nil, err
	}
	return f.Parse().FindSection(id)
}
