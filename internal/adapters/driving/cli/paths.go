package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/htm/internal/core/domain"
)

var (
	pathsProjectRoot string
	pathsEnsure      bool
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show the resolved project paths",
	Long: `Prints the project root and the data, models and results directories.

The root comes from --project-root, then HTM_ROOT or HTM_BASE_DIR, then a
Colab or Kaggle mount, then the nearest ancestor of the current directory
holding README.md or .git. Directories are only created with --ensure.`,
	Args: checkArgs(cobra.NoArgs),
	RunE: runPaths,
}

func init() {
	pathsCmd.Flags().StringVar(&pathsProjectRoot, "project-root", "", "Explicit project root")
	pathsCmd.Flags().BoolVar(&pathsEnsure, "ensure", false, "Create the working directories")
	rootCmd.AddCommand(pathsCmd)
}

// pathsWidth aligns the paths listing.
const pathsWidth = 12

func runPaths(cmd *cobra.Command, _ []string) error {
	if pathResolver == nil {
		return errors.New("path resolver not configured")
	}

	paths, err := pathResolver.Resolve(pathsProjectRoot)
	if err != nil {
		return domain.NewRunError(domain.KindFilesystem, nil, err)
	}
	if pathsEnsure {
		if err := pathResolver.Ensure(paths); err != nil {
			return domain.NewRunError(domain.KindFilesystem, nil, err)
		}
	}

	p := newPrinter(cmd.OutOrStdout())
	p.field("Project root", pathsWidth, paths.Root)
	p.field("Data dir", pathsWidth, paths.DataDir)
	p.field("Models dir", pathsWidth, paths.ModelsDir)
	p.field("Results dir", pathsWidth, paths.ResultsDir)
	if pathsEnsure {
		p.muted("Working directories ensured.")
	}
	return nil
}
