package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/htm/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driving"
	"github.com/custodia-labs/htm/internal/core/services"
	"github.com/custodia-labs/htm/internal/logger"
)

// fakeExecutor records executions and fails for paths containing failOn.
type fakeExecutor struct {
	python   string
	executed []string
	failOn   string
}

func (f *fakeExecutor) Command(path string) []string {
	return []string{f.python, "-m", "jupyter", "nbconvert", "--to", "notebook", "--execute", "--inplace", path}
}

func (f *fakeExecutor) Execute(_ context.Context, path string, _ domain.Environment) error {
	f.executed = append(f.executed, path)
	if f.failOn != "" && strings.Contains(path, f.failOn) {
		return errors.New("python3 exited with status 1")
	}
	return nil
}

// cliFixture wires the CLI to real services over a temporary project.
type cliFixture struct {
	root     string
	executor *fakeExecutor
	runs     *memory.RunStore
	config   *memory.ConfigStore
	options  []PipelineOptions
}

func setupCLI(t *testing.T) *cliFixture {
	t.Helper()

	f := &cliFixture{
		root:     t.TempDir(),
		executor: &fakeExecutor{},
		runs:     memory.NewRunStore(),
		config:   memory.NewConfigStore(),
	}
	env := domain.NewEnvironment(nil)

	oldPipeline, oldResolver := newPipeline, pathResolver
	oldHistory, oldSettings := historyService, settingsService

	SetPipelineFactory(func(opts PipelineOptions) driving.PipelineService {
		f.options = append(f.options, opts)
		f.executor.python = opts.Python
		svcOpts := []services.PipelineOption{services.WithPipelineWorkingDir(f.root)}
		if opts.Record {
			svcOpts = append(svcOpts, services.WithRunStore(f.runs))
		}
		return services.NewPipelineService(f.executor, env, svcOpts...)
	})
	SetPathResolver(services.NewPathResolver(env, services.WithWorkingDir(f.root)))
	SetHistoryService(services.NewHistoryService(f.runs))
	SetSettingsService(services.NewSettingsService(f.config))

	resetFlags(t, rootCmd)

	t.Cleanup(func() {
		newPipeline, pathResolver = oldPipeline, oldResolver
		historyService, settingsService = oldHistory, oldSettings
		resetFlags(t, rootCmd)
		logger.SetVerbose(false)
		logger.SetTimestamps(false)
		logger.SetOutput(os.Stderr)
	})
	return f
}

// resetFlags returns every flag of cmd and its subcommands to its
// default, as a fresh process would see them.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(fl *pflag.Flag) {
		require.NoError(t, fl.Value.Set(fl.DefValue), fl.Name)
		fl.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(t, sub)
	}
}

// writeNotebooks creates every catalog notebook under the fixture root,
// except those whose path contains one of skip.
func (f *cliFixture) writeNotebooks(t *testing.T, skip ...string) {
	t.Helper()
	for _, u := range domain.DefaultCatalog().Units() {
		skipped := false
		for _, s := range skip {
			if strings.Contains(u.Path, s) {
				skipped = true
			}
		}
		if skipped {
			continue
		}
		path := filepath.Join(f.root, u.Path)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(t, rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
