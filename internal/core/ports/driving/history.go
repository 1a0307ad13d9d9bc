package driving

import (
	"context"

	"github.com/custodia-labs/htm/internal/core/domain"
)

// HistoryService reads recorded pipeline runs.
type HistoryService interface {
	// List returns recent runs, newest first.
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error)

	// Get returns one run with its unit outcomes.
	Get(ctx context.Context, runID string) (*domain.RunRecord, error)
}
