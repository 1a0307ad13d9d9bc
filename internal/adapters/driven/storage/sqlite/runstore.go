package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

var runColumns = []string{
	"id", "started_at", "finished_at", "execute", "from_stage", "to_stage", "skip_top2vec",
	"root_override", "data_override", "models_override", "results_override",
	"notebook_dir", "python", "root", "data_dir", "models_dir", "results_dir",
	"status", "exit_code", "error",
}

var unitColumns = []string{
	"seq", "unit_id", "stage", "path", "command", "outcome", "started_at", "finished_at", "error",
}

// SaveRun creates or updates a run row.
func (s *runStore) SaveRun(ctx context.Context, run *domain.RunRecord) error {
	if run == nil {
		return domain.ErrInvalidInput
	}

	cfg := run.Config
	query, args, err := s.store.builder.
		Insert("runs").
		Columns(runColumns...).
		Values(
			run.ID, formatTime(run.StartedAt), formatNullableTime(run.FinishedAt),
			boolToInt(cfg.Execute), cfg.FromStage, cfg.ToStage, boolToInt(cfg.SkipTop2Vec),
			cfg.RootOverride, cfg.DataOverride, cfg.ModelsOverride, cfg.ResultsOverride,
			cfg.NotebookDir, cfg.Python,
			run.Paths.Root, run.Paths.DataDir, run.Paths.ModelsDir, run.Paths.ResultsDir,
			string(run.Status), run.ExitCode, nullString(run.Error),
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			status = excluded.status,
			exit_code = excluded.exit_code,
			error = excluded.error`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building run upsert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// AppendUnit records the outcome of one unit.
func (s *runStore) AppendUnit(ctx context.Context, runID string, unit domain.UnitRecord) error {
	query, args, err := s.store.builder.
		Insert("unit_runs").
		Columns(append([]string{"run_id"}, unitColumns...)...).
		Values(
			runID, unit.Seq, unit.UnitID, unit.Stage, unit.Path, unit.Command,
			string(unit.Outcome), formatTime(unit.StartedAt), formatNullableTime(unit.FinishedAt),
			nullString(unit.Error),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("building unit insert: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving unit %s: %w", unit.UnitID, err)
	}
	return nil
}

// GetRun retrieves a run with its units.
func (s *runStore) GetRun(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query, args, err := s.store.builder.
		Select(runColumns...).
		From("runs").
		Where(sq.Eq{"id": runID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building run query: %w", err)
	}

	run, err := scanRun(s.store.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	units, err := s.listUnits(ctx, runID)
	if err != nil {
		return nil, err
	}
	run.Units = units
	return run, nil
}

// ListRuns returns runs newest first, without units.
func (s *runStore) ListRuns(ctx context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error) {
	builder := s.store.builder.
		Select(runColumns...).
		From("runs").
		OrderBy("started_at DESC", "id DESC")
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building run list: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func (s *runStore) listUnits(ctx context.Context, runID string) ([]domain.UnitRecord, error) {
	query, args, err := s.store.builder.
		Select(unitColumns...).
		From("unit_runs").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building unit query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying units: %w", err)
	}
	defer rows.Close()

	var units []domain.UnitRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			u                   domain.UnitRecord
			outcome, startedAt  string
			finishedAt, errText sql.NullString
		)
		if err := rows.Scan(&u.Seq, &u.UnitID, &u.Stage, &u.Path, &u.Command,
			&outcome, &startedAt, &finishedAt, &errText); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		u.Outcome = domain.UnitOutcome(outcome)
		u.StartedAt = parseTime(startedAt)
		u.FinishedAt = parseNullableTime(finishedAt)
		u.Error = errText.String
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating units: %w", err)
	}
	return units, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.RunRecord, error) {
	var (
		run                 domain.RunRecord
		startedAt, status   string
		finishedAt, errText sql.NullString
		execute, skip       int
	)
	err := row.Scan(
		&run.ID, &startedAt, &finishedAt, &execute,
		&run.Config.FromStage, &run.Config.ToStage, &skip,
		&run.Config.RootOverride, &run.Config.DataOverride,
		&run.Config.ModelsOverride, &run.Config.ResultsOverride,
		&run.Config.NotebookDir, &run.Config.Python,
		&run.Paths.Root, &run.Paths.DataDir, &run.Paths.ModelsDir, &run.Paths.ResultsDir,
		&status, &run.ExitCode, &errText,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseNullableTime(finishedAt)
	run.Config.Execute = execute != 0
	run.Config.SkipTop2Vec = skip != 0
	run.Status = domain.RunStatus(status)
	run.Error = errText.String
	return &run, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseNullableTime(ns sql.NullString) time.Time {
	if !ns.Valid {
		return time.Time{}
	}
	return parseTime(ns.String)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
