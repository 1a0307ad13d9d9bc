package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/htm/internal/core/domain"
)

func sampleRun(id string, started time.Time, status domain.RunStatus) *domain.RunRecord {
	return &domain.RunRecord{
		ID:        id,
		StartedAt: started,
		Config: domain.RunConfig{
			Execute:      true,
			FromStage:    2,
			ToStage:      4,
			SkipTop2Vec:  true,
			RootOverride: "/srv/htm",
			Python:       "python3",
		},
		Paths: domain.ProjectPaths{
			Root:       "/srv/htm",
			DataDir:    "/srv/htm/data",
			ModelsDir:  "/srv/htm/models",
			ResultsDir: "/srv/htm/results_artifacts",
		},
		Status: status,
	}
}

func TestRunStore_SaveAndGetRun(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()
	started := time.Now().UTC().Truncate(time.Millisecond)

	run := sampleRun("run-1", started, domain.RunStatusRunning)
	require.NoError(t, runs.SaveRun(ctx, run))

	unit := domain.UnitRecord{
		Seq:        1,
		UnitID:     "stage2-preprocessing",
		Stage:      2,
		Path:       "/nb/notebooks/stage2.ipynb",
		Command:    "python3 -m jupyter nbconvert --to notebook --execute --inplace /nb/notebooks/stage2.ipynb",
		Outcome:    domain.OutcomeFailed,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Error:      "stage2.ipynb exited with status 1",
	}
	require.NoError(t, runs.AppendUnit(ctx, "run-1", unit))

	run.Status = domain.RunStatusFailed
	run.ExitCode = domain.ExitExecutorFailed
	run.Error = "executor-failed"
	run.FinishedAt = started.Add(3 * time.Second)
	require.NoError(t, runs.SaveRun(ctx, run))

	got, err := runs.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, domain.RunStatusFailed, got.Status)
	assert.Equal(t, domain.ExitExecutorFailed, got.ExitCode)
	assert.Equal(t, "executor-failed", got.Error)
	assert.Equal(t, run.Config, got.Config)
	assert.Equal(t, run.Paths, got.Paths)
	assert.WithinDuration(t, started, got.StartedAt, time.Millisecond)
	assert.WithinDuration(t, run.FinishedAt, got.FinishedAt, time.Millisecond)

	require.Len(t, got.Units, 1)
	assert.Equal(t, unit.UnitID, got.Units[0].UnitID)
	assert.Equal(t, unit.Outcome, got.Units[0].Outcome)
	assert.Equal(t, unit.Command, got.Units[0].Command)
	assert.Equal(t, unit.Error, got.Units[0].Error)
	assert.Equal(t, 2*time.Second, got.Units[0].Duration())
}

func TestRunStore_GetRun_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.RunStore().GetRun(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_SaveRun_Nil(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.RunStore().SaveRun(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_AppendUnit_UnknownRunViolatesForeignKey(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.RunStore().AppendUnit(context.Background(), "ghost", domain.UnitRecord{
		Seq: 1, UnitID: "stage1-datasets-prep", Outcome: domain.OutcomeDryRun, StartedAt: time.Now(),
	})

	assert.Error(t, err)
}

func TestRunStore_ListRuns(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, runs.SaveRun(ctx, sampleRun("a", base, domain.RunStatusSucceeded)))
	require.NoError(t, runs.SaveRun(ctx, sampleRun("b", base.Add(500*time.Millisecond), domain.RunStatusFailed)))
	require.NoError(t, runs.SaveRun(ctx, sampleRun("c", base.Add(time.Hour), domain.RunStatusSucceeded)))

	all, err := runs.ListRuns(ctx, domain.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "a", all[2].ID)
	assert.Empty(t, all[0].Units)

	limited, err := runs.ListRuns(ctx, domain.HistoryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	failed, err := runs.ListRuns(ctx, domain.HistoryFilter{Status: domain.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].ID)
}
