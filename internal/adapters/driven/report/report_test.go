package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/htm/internal/core/domain"
)

func sampleRun() domain.RunRecord {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return domain.RunRecord{
		ID:         "6f1c",
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
		Config:     domain.RunConfig{FromStage: 3, ToStage: 3, SkipTop2Vec: true},
		Paths: domain.ProjectPaths{
			Root: "/p", DataDir: "/p/data", ModelsDir: "/p/models", ResultsDir: "/p/results_artifacts",
		},
		Status:   domain.RunStatusFailed,
		ExitCode: domain.ExitUnitMissing,
		Error:    "missing-unit",
		Units: []domain.UnitRecord{{
			Seq: 1, UnitID: "stage3-baselines-cpu", Stage: 3, Path: "/nb/stage3.ipynb",
			Outcome: domain.OutcomeMissing, StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond),
			Error: "missing notebook",
		}},
	}
}

func TestFromRun(t *testing.T) {
	r := FromRun(sampleRun())

	assert.Equal(t, "6f1c", r.RunID)
	assert.Equal(t, "failed", r.Status)
	assert.Equal(t, 1, r.ExitCode)
	assert.Equal(t, StageRange{From: 3, To: 3}, r.Stages)
	assert.True(t, r.SkipTop2Vec)
	assert.Equal(t, "/p/results_artifacts", r.Paths.Results)
	require.Len(t, r.Units, 1)
	assert.Equal(t, "missing", r.Units[0].Outcome)
	assert.Equal(t, "1.5s", r.Units[0].Duration)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Encode(&buf, sampleRun()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "6f1c", decoded["run_id"])
	assert.Equal(t, "failed", decoded["status"])
	units, ok := decoded["units"].([]any)
	require.True(t, ok)
	require.Len(t, units, 1)
	assert.Equal(t, "stage3-baselines-cpu", units[0].(map[string]any)["id"])
}

func TestWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")

	require.NoError(t, WriteFile(path, sampleRun()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id: 6f1c")
}
