package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/htm/internal/core/domain"
)

var (
	historyLimit  int
	historyStatus string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded pipeline runs",
	Long:  `Lists recent runs, newest first. Use "history show <run-id>" for unit outcomes.`,
	Args:  checkArgs(cobra.NoArgs),
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the units of a recorded run",
	Args:  checkArgs(cobra.ExactArgs(1)),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Only list runs with this status (running, succeeded, failed)")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func parseRunStatus(s string) (domain.RunStatus, error) {
	switch status := domain.RunStatus(s); status {
	case "", domain.RunStatusRunning, domain.RunStatusSucceeded, domain.RunStatusFailed:
		return status, nil
	default:
		return "", domain.NewRunError(domain.KindInvalidInput, nil,
			fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, s))
	}
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	status, err := parseRunStatus(historyStatus)
	if err != nil {
		return err
	}

	runs, err := historyService.List(cmd.Context(), domain.HistoryFilter{Limit: historyLimit, Status: status})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	if len(runs) == 0 {
		p.line("No runs recorded.")
		return nil
	}

	p.title("RUN                                   STARTED              STATUS     MODE     STAGES")
	for _, run := range runs {
		mode := "dry-run"
		if run.Config.Execute {
			mode = "execute"
		}
		status := p.styles.Status(run.Status).Render(fmt.Sprintf("%-9s", run.Status))
		p.line("%-36s  %-19s  %s  %-7s  %d..%d",
			run.ID, run.StartedAt.Local().Format(time.DateTime), status, mode,
			run.Config.FromStage, run.Config.ToStage)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	run, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		return fmt.Errorf("failed to get run: %w", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	p.field("Run", 12, run.ID)
	p.field("Status", 12, p.styles.Status(run.Status).Render(string(run.Status)))
	p.field("Exit code", 12, run.ExitCode)
	p.field("Started", 12, run.StartedAt.Local().Format(time.DateTime))
	if !run.FinishedAt.IsZero() {
		p.field("Duration", 12, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	p.field("Project root", 12, run.Paths.Root)
	if run.Error != "" {
		p.field("Error", 12, p.styles.Error.Render(run.Error))
	}
	p.line("")

	if len(run.Units) == 0 {
		p.line("No units dispatched.")
		return nil
	}
	for _, u := range run.Units {
		outcome := p.styles.Outcome(u.Outcome).Render(fmt.Sprintf("%-9s", u.Outcome))
		p.line("%d. [%d] %-22s %s %s", u.Seq, u.Stage, u.UnitID, outcome, u.Duration().Round(time.Millisecond))
		if u.Error != "" {
			p.muted("   %s", u.Error)
		}
	}
	return nil
}
