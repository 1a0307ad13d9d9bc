package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/htm/internal/core/domain"
)

var stagesOpts runOptions

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the pipeline notebooks",
	Long: `Lists the notebook catalog. With stage flags, only the notebooks a run
with the same flags would dispatch are listed. Nothing on disk is touched.`,
	Args: checkArgs(cobra.NoArgs),
	RunE: runStages,
}

func init() {
	fs := stagesCmd.Flags()
	fs.IntVar(&stagesOpts.fromStage, "from-stage", domain.MinStage, "Start from stage number (1-5)")
	fs.IntVar(&stagesOpts.toStage, "to-stage", domain.MaxStage, "End at stage number (1-5)")
	fs.BoolVar(&stagesOpts.skipTop2Vec, "skip-top2vec", false, "Skip the GPU Top2Vec notebook (stage 3b)")
	rootCmd.AddCommand(stagesCmd)
}

func runStages(cmd *cobra.Command, _ []string) error {
	if newPipeline == nil {
		return errors.New("pipeline service not configured")
	}

	cfg := domain.RunConfig{
		FromStage:   stagesOpts.fromStage,
		ToStage:     stagesOpts.toStage,
		SkipTop2Vec: stagesOpts.skipTop2Vec,
	}
	units, err := newPipeline(PipelineOptions{}).Select(cfg)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	if len(units) == 0 {
		p.warn("No notebooks selected for stages %d..%d", cfg.FromStage, cfg.ToStage)
		return nil
	}

	p.title("STAGE  ID                      NOTEBOOK")
	for _, u := range units {
		note := ""
		if u.IsTop2Vec() {
			note = p.styles.Muted.Render("  (gpu, --skip-top2vec)")
		}
		p.line("%-5d  %-22s  %s%s", u.Stage, u.ID, u.Path, note)
	}
	return nil
}
