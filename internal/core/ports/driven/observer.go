package driven

import "github.com/custodia-labs/htm/internal/core/domain"

// RunObserver receives progress notifications from a pipeline run.
// Calls happen on the goroutine executing the run, in order.
type RunObserver interface {
	// RunStarted is called once paths are resolved and ensured.
	RunStarted(paths domain.ProjectPaths, cfg domain.RunConfig, units []domain.Unit)

	// UnitStarted is called before a unit is checked and dispatched.
	UnitStarted(unit domain.Unit)

	// UnitFinished is called with the unit's record once it is done.
	UnitFinished(unit domain.Unit, record domain.UnitRecord)

	// RunFinished is called once with the terminal record.
	RunFinished(run domain.RunRecord)
}
