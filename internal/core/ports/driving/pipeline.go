package driving

import (
	"context"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
)

// PipelineService selects and dispatches pipeline units.
type PipelineService interface {
	// Catalog returns the pipeline's unit catalog.
	Catalog() domain.Catalog

	// Select returns the units cfg would dispatch, in order.
	Select(cfg domain.RunConfig) ([]domain.Unit, error)

	// Run resolves paths, ensures directories and dispatches the selected
	// units. The returned record is non-nil whenever the run got far enough
	// to resolve paths. Errors are *domain.RunError.
	Run(ctx context.Context, cfg domain.RunConfig, observer driven.RunObserver) (*domain.RunRecord, error)
}
