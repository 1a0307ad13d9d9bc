package driven

import (
	"context"

	"github.com/custodia-labs/htm/internal/core/domain"
)

// RunStore persists pipeline run history.
type RunStore interface {
	// SaveRun creates or updates a run, without its units.
	SaveRun(ctx context.Context, run *domain.RunRecord) error

	// AppendUnit records the outcome of one unit of a run.
	AppendUnit(ctx context.Context, runID string, unit domain.UnitRecord) error

	// GetRun returns a run with its units.
	// Returns domain.ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, runID string) (*domain.RunRecord, error)

	// ListRuns returns runs newest first, without units.
	ListRuns(ctx context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error)
}
