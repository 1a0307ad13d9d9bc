package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/htm/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tool defaults",
	Long: `View and change the defaults stored in config.toml.

Keys:
  executor.python        Python interpreter used to run jupyter
  pipeline.notebook_dir  Directory notebook paths are relative to
  history.enabled        Record runs in history (true/false)`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  checkArgs(cobra.NoArgs),
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  checkArgs(cobra.ExactArgs(2)),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Get()
	notebookDir := settings.NotebookDir
	if notebookDir == "" {
		notebookDir = "(current directory)"
	}

	p := newPrinter(cmd.OutOrStdout())
	p.title("Current Settings")
	p.field(domain.KeyExecutorPython, 21, settings.Python)
	p.field(domain.KeyPipelineNotebookDir, 21, notebookDir)
	p.field(domain.KeyHistoryEnabled, 21, settings.HistoryEnabled)

	var unknown []string
	for key := range settingsService.Values() {
		if !domain.IsKnownSettingKey(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		p.warn("Ignored keys: %s", strings.Join(unknown, ", "))
	}

	if path := settingsService.Path(); path != "" {
		p.muted("Config file: %s", path)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return domain.NewRunError(domain.KindInvalidInput, nil, err)
		}
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}
