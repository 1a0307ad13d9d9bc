package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
	"github.com/custodia-labs/htm/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// defaultHistoryLimit caps listings when no limit is given.
const defaultHistoryLimit = 20

// errHistoryDisabled is returned when no run store is configured.
var errHistoryDisabled = errors.New("run history is disabled")

// HistoryService reads recorded runs from a RunStore.
type HistoryService struct {
	store driven.RunStore
}

// NewHistoryService creates a history service. store may be nil when
// history is disabled.
func NewHistoryService(store driven.RunStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns recent runs, newest first.
func (s *HistoryService) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error) {
	if s.store == nil {
		return nil, errHistoryDisabled
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	return s.store.ListRuns(ctx, filter)
}

// Get returns a run with its unit outcomes.
func (s *HistoryService) Get(ctx context.Context, runID string) (*domain.RunRecord, error) {
	if s.store == nil {
		return nil, errHistoryDisabled
	}
	if runID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.GetRun(ctx, runID)
}
