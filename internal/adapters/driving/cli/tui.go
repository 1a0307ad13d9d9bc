package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/htm/internal/adapters/driving/tui"
	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
)

var tuiOpts runOptions

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the pipeline with a live terminal view",
	Long: `Runs the pipeline like "htm run" and shows each notebook's progress in
an interactive view. Notebook output is printed after the view closes when
the run fails.

Controls:
  c        - Toggle command lines
  q / Esc  - Cancel the run, or exit once it has finished`,
	Args: checkArgs(cobra.NoArgs),
	RunE: runTUI,
}

func init() {
	addRunFlags(tuiCmd.Flags(), &tuiOpts)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if newPipeline == nil {
		return errors.New("pipeline service not configured")
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	cfg, settings, err := prepareRun(tuiOpts)
	if err != nil {
		return err
	}

	// The view owns the terminal; executor output is replayed afterwards.
	var output bytes.Buffer
	pipeline := newPipeline(PipelineOptions{
		Python: cfg.Python,
		Record: tuiOpts.record(settings),
		Stdout: &output,
		Stderr: &output,
	})

	runner := func(ctx context.Context, observer driven.RunObserver) (*domain.RunRecord, error) {
		return pipeline.Run(ctx, cfg, observer)
	}

	app, err := tui.NewApp(runner)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	writeReport(tuiOpts.report, app.Run())

	if runErr := app.Err(); runErr != nil {
		if output.Len() > 0 {
			cmd.PrintErr(output.String())
		}
		return runErr
	}
	if run := app.Run(); run != nil {
		newPrinter(cmd.OutOrStdout()).muted("Run %s %s", run.ID, run.Status)
	}
	return nil
}
