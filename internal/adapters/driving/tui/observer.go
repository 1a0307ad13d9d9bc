package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/htm/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
)

// Ensure observer implements the interface.
var _ driven.RunObserver = (*observer)(nil)

// observer turns pipeline callbacks into messages for the App.
type observer struct {
	events chan<- tea.Msg
}

func (o *observer) RunStarted(paths domain.ProjectPaths, cfg domain.RunConfig, units []domain.Unit) {
	o.events <- messages.RunStarted{Paths: paths, Config: cfg, Units: units}
}

func (o *observer) UnitStarted(unit domain.Unit) {
	o.events <- messages.UnitStarted{Unit: unit}
}

func (o *observer) UnitFinished(unit domain.Unit, record domain.UnitRecord) {
	o.events <- messages.UnitFinished{Unit: unit, Record: record}
}

func (o *observer) RunFinished(run domain.RunRecord) {
	o.events <- messages.RunFinished{Run: run}
}
