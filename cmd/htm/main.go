// Command htm runs the Hebrew topic-modelling notebook pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/htm/internal/adapters/driven/config/file"
	"github.com/custodia-labs/htm/internal/adapters/driven/executor/nbconvert"
	"github.com/custodia-labs/htm/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/htm/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/htm/internal/adapters/driving/cli"
	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
	"github.com/custodia-labs/htm/internal/core/ports/driving"
	"github.com/custodia-labs/htm/internal/core/services"
	"github.com/custodia-labs/htm/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := domain.NewEnvironment(os.Environ())

	configDir, err := configDir(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitFilesystem
	}

	var configStore driven.ConfigStore
	if store, err := file.NewConfigStore(configDir); err != nil {
		logger.Warn("Using built-in defaults: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = store
	}
	settings := services.NewSettingsService(configStore)

	// History is best effort: runs are kept in memory for this process
	// when the database cannot be opened.
	var runStore driven.RunStore
	if settings.Get().HistoryEnabled {
		store, err := sqlite.NewStore(configDir)
		if err != nil {
			logger.Warn("Run history unavailable: %v", err)
			runStore = memory.NewRunStore()
		} else {
			defer store.Close()
			runStore = store.RunStore()
		}
	}

	cli.SetVersion(version)
	cli.SetSettingsService(settings)
	cli.SetHistoryService(services.NewHistoryService(runStore))
	cli.SetPathResolver(services.NewPathResolver(env))
	cli.SetPipelineFactory(func(opts cli.PipelineOptions) driving.PipelineService {
		stdout, stderr := opts.Stdout, opts.Stderr
		if stdout == nil {
			stdout = os.Stdout
		}
		if stderr == nil {
			stderr = os.Stderr
		}
		executor := nbconvert.New(opts.Python, nbconvert.WithOutput(stdout, stderr))
		logger.Debug("Notebook interpreter: %s", executor.Python())

		var pipelineOpts []services.PipelineOption
		if opts.Record && runStore != nil {
			pipelineOpts = append(pipelineOpts, services.WithRunStore(runStore))
		}
		return services.NewPipelineService(executor, env, pipelineOpts...)
	})

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitCode(err)
	}
	return domain.ExitOK
}

// configDir returns $HTM_CONFIG_DIR, or ~/.htm.
func configDir(env domain.Environment) (string, error) {
	if dir := env.Get(domain.EnvConfigDir); dir != "" {
		return dir, nil
	}
	return file.DefaultConfigDir()
}
