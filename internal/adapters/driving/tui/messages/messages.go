// Package messages defines Bubbletea message types for the TUI.
// Each pipeline observer callback becomes one message.
package messages

import (
	"github.com/custodia-labs/htm/internal/core/domain"
)

// RunStarted is sent once paths are resolved and directories exist.
type RunStarted struct {
	Paths  domain.ProjectPaths
	Config domain.RunConfig
	Units  []domain.Unit
}

// UnitStarted is sent before a unit is dispatched.
type UnitStarted struct {
	Unit domain.Unit
}

// UnitFinished carries the outcome of one unit.
type UnitFinished struct {
	Unit   domain.Unit
	Record domain.UnitRecord
}

// RunFinished carries the terminal record of the run.
type RunFinished struct {
	Run domain.RunRecord
}

// RunDone is sent when the pipeline call returns. Err is the run's
// error, including failures that happened before RunStarted.
type RunDone struct {
	Run *domain.RunRecord
	Err error
}
