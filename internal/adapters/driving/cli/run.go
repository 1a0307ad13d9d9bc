package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/htm/internal/adapters/driven/report"
	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/logger"
)

// runOptions holds the flags shared by run and tui.
type runOptions struct {
	execute     bool
	fromStage   int
	toStage     int
	skipTop2Vec bool
	projectRoot string
	dataRoot    string
	modelsRoot  string
	resultsRoot string
	notebookDir string
	python      string
	report      string
	noHistory   bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline notebooks in stage order",
	Long: `Resolves the project root, creates the data, models and results
directories, then dispatches every selected notebook to
"python -m jupyter nbconvert --to notebook --execute --inplace".

Without --execute the command line of each notebook is printed instead.
The run stops at the first missing or failing notebook.

Exit codes: 0 success, 1 missing notebook, 2 notebook failed,
3 invalid arguments, 4 filesystem error.`,
	Args: checkArgs(cobra.NoArgs),
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd.Flags(), &runOpts)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(fs *pflag.FlagSet, o *runOptions) {
	fs.BoolVar(&o.execute, "execute", false, "Actually execute notebooks (default: dry-run)")
	fs.IntVar(&o.fromStage, "from-stage", domain.MinStage, "Start from stage number (1-5)")
	fs.IntVar(&o.toStage, "to-stage", domain.MaxStage, "End at stage number (1-5)")
	fs.BoolVar(&o.skipTop2Vec, "skip-top2vec", false, "Skip the GPU Top2Vec notebook (stage 3b)")
	fs.StringVar(&o.projectRoot, "project-root", "", "Override project root (also sets "+domain.EnvRoot+")")
	fs.StringVar(&o.dataRoot, "data-root", "", "Override data directory (sets "+domain.EnvDataDir+")")
	fs.StringVar(&o.modelsRoot, "models-root", "", "Override models directory (sets "+domain.EnvModelsDir+")")
	fs.StringVar(&o.resultsRoot, "results-root", "", "Override results directory (sets "+domain.EnvResultsDir+")")
	fs.StringVar(&o.notebookDir, "notebook-dir", "", "Directory notebook paths are relative to (default: current directory)")
	fs.StringVar(&o.python, "python", "", "Python interpreter used to run jupyter")
	fs.StringVar(&o.report, "report", "", "Write a YAML run report to this file")
	fs.BoolVar(&o.noHistory, "no-history", false, "Do not record this run in history")
}

// config merges the flags over settings.
func (o runOptions) config(settings domain.Settings) domain.RunConfig {
	cfg := domain.RunConfig{
		Execute:         o.execute,
		FromStage:       o.fromStage,
		ToStage:         o.toStage,
		SkipTop2Vec:     o.skipTop2Vec,
		RootOverride:    o.projectRoot,
		DataOverride:    o.dataRoot,
		ModelsOverride:  o.modelsRoot,
		ResultsOverride: o.resultsRoot,
		NotebookDir:     o.notebookDir,
		Python:          o.python,
	}
	if cfg.NotebookDir == "" {
		cfg.NotebookDir = settings.NotebookDir
	}
	if cfg.Python == "" {
		cfg.Python = settings.Python
	}
	return cfg
}

// record reports whether the run goes to history.
func (o runOptions) record(settings domain.Settings) bool {
	return settings.HistoryEnabled && !o.noHistory
}

func currentSettings() domain.Settings {
	if settingsService == nil {
		return domain.DefaultSettings()
	}
	return settingsService.Get()
}

// prepareRun validates the flags and returns the run configuration.
func prepareRun(o runOptions) (domain.RunConfig, domain.Settings, error) {
	settings := currentSettings()
	cfg := o.config(settings)
	if err := cfg.Validate(); err != nil {
		return cfg, settings, domain.NewRunError(domain.KindInvalidInput, nil, err)
	}
	return cfg, settings, nil
}

func runRun(cmd *cobra.Command, _ []string) error {
	if newPipeline == nil {
		return errors.New("pipeline service not configured")
	}

	cfg, settings, err := prepareRun(runOpts)
	if err != nil {
		return err
	}

	pipeline := newPipeline(PipelineOptions{
		Python: cfg.Python,
		Record: runOpts.record(settings),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})

	run, err := pipeline.Run(cmd.Context(), cfg, &runObserver{p: newPrinter(cmd.OutOrStdout())})
	writeReport(runOpts.report, run)
	return err
}

// writeReport writes the YAML report when requested. A failed report is
// logged and does not change the run's outcome.
func writeReport(path string, run *domain.RunRecord) {
	if path == "" || run == nil {
		return
	}
	if err := report.WriteFile(path, *run); err != nil {
		logger.Warn("Failed to write report: %v", err)
		return
	}
	logger.Info("Wrote report to %s", path)
}
