package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
	"github.com/custodia-labs/htm/internal/core/ports/driving"
	"github.com/custodia-labs/htm/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService dispatches catalog units to the notebook executor.
type PipelineService struct {
	catalog  domain.Catalog
	executor driven.NotebookExecutor
	runStore driven.RunStore
	baseEnv  domain.Environment

	newResolver func(env domain.Environment) driving.PathResolver
	exists      func(path string) bool
	getwd       func() (string, error)
	now         func() time.Time
	newID       func() string
}

// PipelineOption customises a PipelineService.
type PipelineOption func(*PipelineService)

// WithCatalog replaces the default catalog.
func WithCatalog(c domain.Catalog) PipelineOption {
	return func(s *PipelineService) {
		s.catalog = c
	}
}

// WithRunStore records every run in store.
func WithRunStore(store driven.RunStore) PipelineOption {
	return func(s *PipelineService) {
		s.runStore = store
	}
}

// WithResolverFactory replaces how path resolvers are built from the
// derived environment.
func WithResolverFactory(fn func(env domain.Environment) driving.PathResolver) PipelineOption {
	return func(s *PipelineService) {
		s.newResolver = fn
	}
}

// WithUnitExists replaces the notebook existence check.
func WithUnitExists(fn func(path string) bool) PipelineOption {
	return func(s *PipelineService) {
		s.exists = fn
	}
}

// WithPipelineWorkingDir fixes the default notebook directory.
func WithPipelineWorkingDir(dir string) PipelineOption {
	return func(s *PipelineService) {
		s.getwd = func() (string, error) { return dir, nil }
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) PipelineOption {
	return func(s *PipelineService) {
		s.now = now
	}
}

// NewPipelineService creates a pipeline service. baseEnv is the parent
// environment the child environment is derived from; it is never modified.
func NewPipelineService(
	executor driven.NotebookExecutor,
	baseEnv domain.Environment,
	opts ...PipelineOption,
) *PipelineService {
	s := &PipelineService{
		catalog:     domain.DefaultCatalog(),
		executor:    executor,
		baseEnv:     baseEnv,
		newResolver: defaultResolverFactory,
		exists:      pathExists,
		getwd:       os.Getwd,
		now:         time.Now,
		newID:       newRunID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultResolverFactory(env domain.Environment) driving.PathResolver {
	return NewPathResolver(env)
}

func newRunID() string {
	return uuid.New().String()
}

// Catalog returns the pipeline's unit catalog.
func (s *PipelineService) Catalog() domain.Catalog {
	return s.catalog
}

// Select validates the stage bounds and returns the units cfg selects.
func (s *PipelineService) Select(cfg domain.RunConfig) ([]domain.Unit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, domain.NewRunError(domain.KindInvalidInput, nil, err)
	}
	return SelectUnits(s.catalog, cfg.FromStage, cfg.ToStage, cfg.SkipTop2Vec), nil
}

// SelectUnits concatenates the units of every stage in [from, to] in
// catalog order. A reversed range selects nothing. With skipTop2Vec the
// GPU Top2Vec unit is dropped wherever it appears.
func SelectUnits(catalog domain.Catalog, from, to int, skipTop2Vec bool) []domain.Unit {
	var selected []domain.Unit
	for stage := from; stage <= to; stage++ {
		selected = append(selected, catalog.Stage(stage)...)
	}
	if !skipTop2Vec {
		return selected
	}

	filtered := selected[:0]
	for _, u := range selected {
		if !u.IsTop2Vec() {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// BuildEnvironment overlays the path overrides of cfg onto base.
// Overrides that were not supplied leave base untouched.
func BuildEnvironment(base domain.Environment, cfg domain.RunConfig) domain.Environment {
	env := base
	overlays := []struct {
		key, value string
	}{
		{domain.EnvRoot, cfg.RootOverride},
		{domain.EnvDataDir, cfg.DataOverride},
		{domain.EnvModelsDir, cfg.ModelsOverride},
		{domain.EnvResultsDir, cfg.ResultsOverride},
	}
	for _, o := range overlays {
		if o.value != "" {
			env = env.With(o.key, o.value)
		}
	}
	return env
}

// Run resolves the project paths, creates the working directories and
// dispatches every selected unit in order. It stops at the first missing
// notebook or the first failed execution.
func (s *PipelineService) Run(
	ctx context.Context,
	cfg domain.RunConfig,
	observer driven.RunObserver,
) (*domain.RunRecord, error) {
	if observer == nil {
		observer = nopObserver{}
	}

	units, err := s.Select(cfg)
	if err != nil {
		return nil, err
	}

	env := BuildEnvironment(s.baseEnv, cfg)
	resolver := s.newResolver(env)

	paths, err := resolver.Resolve(cfg.RootOverride)
	if err != nil {
		return nil, domain.NewRunError(domain.KindFilesystem, nil, err)
	}
	if err := resolver.Ensure(paths); err != nil {
		return nil, domain.NewRunError(domain.KindFilesystem, nil, err)
	}

	notebookDir, err := s.notebookDir(cfg.NotebookDir)
	if err != nil {
		return nil, domain.NewRunError(domain.KindFilesystem, nil, err)
	}

	run := &domain.RunRecord{
		ID:        s.newID(),
		StartedAt: s.now(),
		Config:    cfg,
		Paths:     paths,
		Status:    domain.RunStatusRunning,
	}

	// History outlives cancellation so an interrupted run is still
	// recorded as failed.
	histCtx := context.WithoutCancel(ctx)
	s.saveRun(histCtx, run)

	logger.Section("Pipeline")
	logger.Info("Run %s: %d unit(s) selected, execute=%t", run.ID, len(units), cfg.Execute)
	if len(units) == 0 {
		logger.Warn("Stage range %d..%d selects no notebooks", cfg.FromStage, cfg.ToStage)
	}

	observer.RunStarted(paths, cfg, units)

	var runErr *domain.RunError
	for i, unit := range units {
		observer.UnitStarted(unit)

		rec, uerr := s.dispatch(ctx, i+1, unit, notebookDir, cfg.Execute, env)
		run.Units = append(run.Units, rec)
		s.appendUnit(histCtx, run.ID, rec)
		observer.UnitFinished(unit, rec)

		if uerr != nil {
			runErr = uerr
			break
		}
	}

	s.finish(run, runErr)
	s.saveRun(histCtx, run)
	observer.RunFinished(*run)

	if runErr != nil {
		return run, runErr
	}
	return run, nil
}

// dispatch checks one unit's notebook and executes or prints it.
func (s *PipelineService) dispatch(
	ctx context.Context,
	seq int,
	unit domain.Unit,
	notebookDir string,
	execute bool,
	env domain.Environment,
) (domain.UnitRecord, *domain.RunError) {
	path := filepath.Join(notebookDir, unit.Path)
	rec := domain.UnitRecord{
		Seq:       seq,
		UnitID:    unit.ID,
		Stage:     unit.Stage,
		Path:      path,
		Command:   strings.Join(s.executor.Command(path), " "),
		StartedAt: s.now(),
	}

	if !s.exists(path) {
		logger.Warn("Missing notebook: %s", path)
		rec.Outcome = domain.OutcomeMissing
		rec.Error = domain.ErrUnitMissing.Error()
		rec.FinishedAt = s.now()
		return rec, domain.NewRunError(domain.KindUnitMissing, &unit, domain.ErrUnitMissing)
	}

	if !execute {
		logger.Debug("Dry-run: %s", rec.Command)
		rec.Outcome = domain.OutcomeDryRun
		rec.FinishedAt = s.now()
		return rec, nil
	}

	logger.Info("Executing %s", unit.ID)
	if err := s.executor.Execute(ctx, path, env); err != nil {
		rec.Outcome = domain.OutcomeFailed
		rec.Error = err.Error()
		rec.FinishedAt = s.now()
		return rec, domain.NewRunError(domain.KindExecutorFailed, &unit,
			fmt.Errorf("%w: %w", domain.ErrExecutorFailed, err))
	}

	rec.Outcome = domain.OutcomeSucceeded
	rec.FinishedAt = s.now()
	logger.Info("Finished %s in %s", unit.ID, rec.Duration().Round(time.Millisecond))
	return rec, nil
}

func (s *PipelineService) notebookDir(dir string) (string, error) {
	if dir == "" {
		cwd, err := s.getwd()
		if err != nil {
			return "", fmt.Errorf("%w: determine working directory: %w", domain.ErrFilesystem, err)
		}
		return cwd, nil
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}
	cwd, err := s.getwd()
	if err != nil {
		return "", fmt.Errorf("%w: determine working directory: %w", domain.ErrFilesystem, err)
	}
	return filepath.Join(cwd, dir), nil
}

func (s *PipelineService) finish(run *domain.RunRecord, runErr *domain.RunError) {
	run.FinishedAt = s.now()
	if runErr == nil {
		run.Status = domain.RunStatusSucceeded
		run.ExitCode = domain.ExitOK
		return
	}
	run.Status = domain.RunStatusFailed
	run.ExitCode = runErr.ExitCode()
	run.Error = runErr.Error()
}

// saveRun persists run. History is best effort: failures are logged only.
func (s *PipelineService) saveRun(ctx context.Context, run *domain.RunRecord) {
	if s.runStore == nil {
		return
	}
	if err := s.runStore.SaveRun(ctx, run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
}

func (s *PipelineService) appendUnit(ctx context.Context, runID string, rec domain.UnitRecord) {
	if s.runStore == nil {
		return
	}
	if err := s.runStore.AppendUnit(ctx, runID, rec); err != nil {
		logger.Warn("Failed to record unit %s: %v", rec.UnitID, err)
	}
}

type nopObserver struct{}

func (nopObserver) RunStarted(domain.ProjectPaths, domain.RunConfig, []domain.Unit) {}

func (nopObserver) UnitStarted(domain.Unit) {}

func (nopObserver) UnitFinished(domain.Unit, domain.UnitRecord) {}

func (nopObserver) RunFinished(domain.RunRecord) {}
