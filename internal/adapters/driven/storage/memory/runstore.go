package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunRecord
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.RunRecord),
	}
}

// SaveRun stores or updates a run. Units already appended are kept.
func (s *RunStore) SaveRun(_ context.Context, run *domain.RunRecord) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *run
	stored.Units = nil
	if existing, ok := s.runs[run.ID]; ok {
		stored.Units = existing.Units
	}
	s.runs[run.ID] = stored
	return nil
}

// AppendUnit records a unit outcome for an existing run.
func (s *RunStore) AppendUnit(_ context.Context, runID string, unit domain.UnitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return domain.ErrNotFound
	}
	run.Units = append(run.Units, unit)
	s.runs[runID] = run
	return nil
}

// GetRun retrieves a run with its units.
func (s *RunStore) GetRun(_ context.Context, runID string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	run.Units = append([]domain.UnitRecord(nil), run.Units...)
	return &run, nil
}

// ListRuns returns runs newest first, without units.
func (s *RunStore) ListRuns(_ context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		run.Units = nil
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if filter.Limit > 0 && len(runs) > filter.Limit {
		runs = runs[:filter.Limit]
	}
	return runs, nil
}
