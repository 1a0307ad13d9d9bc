package cli

import (
	"fmt"
	"io"

	"github.com/custodia-labs/htm/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
)

// printer writes status lines, styled when out is a terminal.
type printer struct {
	out    io.Writer
	styles *styles.Styles
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out, styles: styles.ForWriter(out)}
}

// field prints "label : value" with the label padded to width.
func (p *printer) field(label string, width int, value any) {
	padded := fmt.Sprintf("%-*s:", width, label)
	fmt.Fprintf(p.out, "%s %v\n", p.styles.Label.Render(padded), value)
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Warning.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) errorf(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Error.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) muted(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Muted.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) title(s string) {
	fmt.Fprintln(p.out, p.styles.Title.Render(s))
}

// statusWidth aligns the run status block.
const statusWidth = 19

// Ensure runObserver implements the interface.
var _ driven.RunObserver = (*runObserver)(nil)

// runObserver prints the progress of a run command.
type runObserver struct {
	p *printer
}

func (o *runObserver) RunStarted(paths domain.ProjectPaths, cfg domain.RunConfig, units []domain.Unit) {
	o.p.field("Using project root", statusWidth, paths.Root)
	o.p.field("Using data dir", statusWidth, paths.DataDir)
	o.p.field("Using models dir", statusWidth, paths.ModelsDir)
	o.p.field("Using results dir", statusWidth, paths.ResultsDir)
	o.p.field("Execute notebooks", statusWidth, cfg.Execute)

	if len(units) == 0 {
		o.p.warn("No notebooks selected for stages %d..%d", cfg.FromStage, cfg.ToStage)
	}
}

func (o *runObserver) UnitStarted(domain.Unit) {}

func (o *runObserver) UnitFinished(unit domain.Unit, rec domain.UnitRecord) {
	switch rec.Outcome {
	case domain.OutcomeDryRun:
		o.p.line("DRY-RUN: %s", rec.Command)
	case domain.OutcomeMissing:
		o.p.errorf("Missing notebook: %s", rec.Path)
	case domain.OutcomeFailed:
		o.p.errorf("Notebook failed: %s", unit.Path)
	}
}

func (o *runObserver) RunFinished(run domain.RunRecord) {
	o.p.muted("Run %s %s", run.ID, run.Status)
}
