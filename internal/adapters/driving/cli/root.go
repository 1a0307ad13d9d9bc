// Package cli implements the htm command line.
// It is a driving adapter: commands translate flags into core service calls.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driving"
	"github.com/custodia-labs/htm/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	verbose       bool
	logTimestamps bool
)

// PipelineOptions describe the executor and history wiring of one run.
type PipelineOptions struct {
	// Python is the interpreter that launches jupyter.
	Python string

	// Record stores the run in history.
	Record bool

	// Stdout and Stderr receive the executor's output.
	Stdout io.Writer
	Stderr io.Writer
}

// PipelineFactory builds a pipeline service for one invocation.
type PipelineFactory func(opts PipelineOptions) driving.PipelineService

// Services injected by the composition root.
var (
	newPipeline     PipelineFactory
	pathResolver    driving.PathResolver
	historyService  driving.HistoryService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "htm",
	Short: "Run the Hebrew topic-modelling notebook pipeline",
	Long: `htm resolves the project layout and runs the pipeline notebooks in
stage order through jupyter nbconvert.

Runs are dry-runs unless --execute is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		logger.SetTimestamps(logTimestamps)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logTimestamps, "log-timestamps", false, "Prefix log lines with the time")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidInput(err)
	})
}

// invalidInput marks a command line error so it exits with code 3.
func invalidInput(err error) error {
	return domain.NewRunError(domain.KindInvalidInput, nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))
}

// checkArgs reports positional argument errors as invalid input.
func checkArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return invalidInput(err)
		}
		return nil
	}
}

// SetPipelineFactory sets how pipeline services are built.
func SetPipelineFactory(f PipelineFactory) {
	newPipeline = f
}

// SetPathResolver sets the resolver used by the paths command.
func SetPathResolver(r driving.PathResolver) {
	pathResolver = r
}

// SetHistoryService sets the run history service.
func SetHistoryService(s driving.HistoryService) {
	historyService = s
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
