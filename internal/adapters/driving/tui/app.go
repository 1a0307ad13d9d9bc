// Package tui renders a pipeline run as a live bubbletea view.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/htm/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/htm/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/htm/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
)

// Runner executes one pipeline run, reporting progress to observer.
// It must return once ctx is cancelled.
type Runner func(ctx context.Context, observer driven.RunObserver) (*domain.RunRecord, error)

// eventBuffer bounds how far the pipeline may run ahead of the view.
const eventBuffer = 16

// unitRow is the display state of one selected unit.
type unitRow struct {
	unit    domain.Unit
	running bool
	record  *domain.UnitRecord
}

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ctx is cancelled by the quit key while the run is in progress.
	ctx    context.Context
	cancel context.CancelFunc

	runner Runner
	events chan tea.Msg

	styles  *styles.Styles
	keys    *keymap.KeyMap
	spinner spinner.Model

	paths   domain.ProjectPaths
	config  domain.RunConfig
	started bool
	rows    []unitRow

	showCommands bool
	cancelling   bool
	done         bool

	run *domain.RunRecord
	err error

	width int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI application that drives runner.
func NewApp(runner Runner) (*App, error) {
	if runner == nil {
		return nil, ErrMissingRunner
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	a := &App{
		runner:  runner,
		events:  make(chan tea.Msg, eventBuffer),
		styles:  styles.DefaultStyles(),
		keys:    keymap.DefaultKeyMap(),
		spinner: s,
	}
	a.spinner.Style = a.styles.Title
	return a.WithContext(context.Background()), nil
}

// WithContext sets the parent context of the run.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx, a.cancel = context.WithCancel(ctx)
	return a
}

// Init implements tea.Model. It starts the spinner and the run.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("htm pipeline"),
		a.spinner.Tick,
		a.start(),
		a.waitForEvent(),
	)
}

// start runs the pipeline. RunDone goes through the event channel so it
// is always delivered after the observer messages.
func (a *App) start() tea.Cmd {
	return func() tea.Msg {
		run, err := a.runner(a.ctx, &observer{events: a.events})
		a.events <- messages.RunDone{Run: run, Err: err}
		return nil
	}
}

func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-a.events
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.RunStarted:
		a.started = true
		a.paths = msg.Paths
		a.config = msg.Config
		a.rows = make([]unitRow, len(msg.Units))
		for i, u := range msg.Units {
			a.rows[i] = unitRow{unit: u}
		}
		return a, a.waitForEvent()

	case messages.UnitStarted:
		if row := a.row(msg.Unit.ID); row != nil {
			row.running = true
		}
		return a, a.waitForEvent()

	case messages.UnitFinished:
		if row := a.row(msg.Unit.ID); row != nil {
			rec := msg.Record
			row.running = false
			row.record = &rec
		}
		return a, a.waitForEvent()

	case messages.RunFinished:
		run := msg.Run
		a.run = &run
		return a, a.waitForEvent()

	case messages.RunDone:
		a.done = true
		a.err = msg.Err
		if msg.Run != nil {
			a.run = msg.Run
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), a.keys.Quit):
		if a.done {
			return a, tea.Quit
		}
		if !a.cancelling {
			a.cancelling = true
			a.cancel()
		}
		return a, nil

	case keymap.Matches(msg.String(), a.keys.Commands):
		a.showCommands = !a.showCommands
		return a, nil
	}
	return a, nil
}

func (a *App) row(id string) *unitRow {
	for i := range a.rows {
		if a.rows[i].unit.ID == id {
			return &a.rows[i]
		}
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	s := a.styles

	b.WriteString(s.Title.Render("htm pipeline"))
	b.WriteString("\n\n")

	if !a.started {
		if a.done {
			b.WriteString(a.footer())
			return b.String()
		}
		fmt.Fprintf(&b, "%s Resolving project paths...\n", a.spinner.View())
		return b.String()
	}

	a.writeField(&b, "Project root", a.paths.Root)
	a.writeField(&b, "Data dir", a.paths.DataDir)
	a.writeField(&b, "Models dir", a.paths.ModelsDir)
	a.writeField(&b, "Results dir", a.paths.ResultsDir)
	a.writeField(&b, "Execute", fmt.Sprintf("%t", a.config.Execute))
	b.WriteString("\n")

	if len(a.rows) == 0 {
		b.WriteString(s.Warning.Render(fmt.Sprintf("No notebooks selected for stages %d..%d",
			a.config.FromStage, a.config.ToStage)))
		b.WriteString("\n")
	}
	for _, row := range a.rows {
		b.WriteString(a.renderRow(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.footer())
	return b.String()
}

func (a *App) writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n", a.styles.Label.Render(fmt.Sprintf("%-13s", label+":")), value)
}

func (a *App) renderRow(row unitRow) string {
	s := a.styles
	icon := s.Muted.Render("·")
	status := s.Muted.Render("pending")

	switch {
	case row.running:
		icon = a.spinner.View()
		status = s.Warning.Render("running")
	case row.record != nil:
		outcome := row.record.Outcome
		icon = s.Outcome(outcome).Render(outcomeIcon(outcome))
		status = s.Outcome(outcome).Render(string(outcome))
		if d := row.record.Duration(); outcome == domain.OutcomeSucceeded && d > 0 {
			status += s.Muted.Render(fmt.Sprintf(" (%s)", d.Round(time.Millisecond)))
		}
	}

	line := fmt.Sprintf("%s %d  %-24s %s", icon, row.unit.Stage, row.unit.ID, status)
	if a.showCommands && row.record != nil && row.record.Command != "" {
		line += "\n    " + s.Muted.Render(row.record.Command)
	}
	return line
}

func outcomeIcon(outcome domain.UnitOutcome) string {
	switch outcome {
	case domain.OutcomeSucceeded:
		return "✓"
	case domain.OutcomeDryRun:
		return "○"
	default:
		return "✗"
	}
}

func (a *App) footer() string {
	s := a.styles
	var b strings.Builder

	switch {
	case a.done && a.err != nil:
		b.WriteString(s.Error.Render("Error: " + a.err.Error()))
	case a.done && a.run != nil:
		b.WriteString(s.Status(a.run.Status).Render("Run " + string(a.run.Status)))
	case a.cancelling:
		b.WriteString(s.Warning.Render("Cancelling..."))
	default:
		b.WriteString(s.Muted.Render("Running..."))
	}
	b.WriteString("\n")

	var hints []string
	for _, k := range a.keys.ShortHelp() {
		hints = append(hints, k.Help().Key+" "+k.Help().Desc)
	}
	b.WriteString(s.Help.Render(strings.Join(hints, " • ")))
	return b.String()
}

// Done reports whether the run has returned.
func (a *App) Done() bool {
	return a.done
}

// Err returns the run's error once it is done.
func (a *App) Err() error {
	return a.err
}

// Run returns the terminal run record, if the run got that far.
func (a *App) Run() *domain.RunRecord {
	return a.run
}
