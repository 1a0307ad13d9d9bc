package domain

import "time"

// RunConfig holds the options of a single pipeline invocation.
type RunConfig struct {
	// Execute runs notebooks; when false the run is a dry-run.
	Execute bool

	// FromStage and ToStage bound the inclusive stage range.
	// A reversed range selects no units.
	FromStage int
	ToStage   int

	// SkipTop2Vec removes the optional GPU Top2Vec unit.
	SkipTop2Vec bool

	// Path overrides. Empty means "not supplied".
	RootOverride    string
	DataOverride    string
	ModelsOverride  string
	ResultsOverride string

	// NotebookDir is the directory unit paths are relative to.
	// Empty means the current working directory.
	NotebookDir string

	// Python is the interpreter used to launch the executor.
	Python string
}

// Validate checks the stage bounds.
func (c RunConfig) Validate() error {
	if err := ValidateStage("from-stage", c.FromStage); err != nil {
		return err
	}
	return ValidateStage("to-stage", c.ToStage)
}

// RunStatus is the terminal state of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// UnitOutcome is what happened to a selected unit.
type UnitOutcome string

// Unit outcomes.
const (
	OutcomeDryRun    UnitOutcome = "dry-run"
	OutcomeSucceeded UnitOutcome = "succeeded"
	OutcomeFailed    UnitOutcome = "failed"
	OutcomeMissing   UnitOutcome = "missing"
)

// RunRecord is the persisted summary of one invocation.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Config     RunConfig
	Paths      ProjectPaths
	Status     RunStatus
	ExitCode   int
	Error      string
	Units      []UnitRecord
}

// UnitRecord is the persisted outcome of one dispatched unit.
type UnitRecord struct {
	Seq        int
	UnitID     string
	Stage      int
	Path       string
	Command    string
	Outcome    UnitOutcome
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// Duration returns how long the unit took.
func (r UnitRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// HistoryFilter narrows a history listing.
type HistoryFilter struct {
	Limit  int
	Status RunStatus
}
