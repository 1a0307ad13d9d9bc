// Package report writes run records as YAML documents, suitable for
// attaching to experiment notes or CI artefacts.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/htm/internal/core/domain"
)

// Report is the YAML shape of a run.
type Report struct {
	RunID       string       `yaml:"run_id"`
	Status      string       `yaml:"status"`
	ExitCode    int          `yaml:"exit_code"`
	Error       string       `yaml:"error,omitempty"`
	StartedAt   time.Time    `yaml:"started_at"`
	FinishedAt  time.Time    `yaml:"finished_at"`
	Execute     bool         `yaml:"execute"`
	Stages      StageRange   `yaml:"stages"`
	SkipTop2Vec bool         `yaml:"skip_top2vec"`
	Paths       PathsReport  `yaml:"paths"`
	Units       []UnitReport `yaml:"units"`
}

// StageRange is the requested inclusive stage range.
type StageRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// PathsReport mirrors domain.ProjectPaths.
type PathsReport struct {
	Root    string `yaml:"root"`
	Data    string `yaml:"data"`
	Models  string `yaml:"models"`
	Results string `yaml:"results"`
}

// UnitReport is one dispatched unit.
type UnitReport struct {
	ID       string `yaml:"id"`
	Stage    int    `yaml:"stage"`
	Path     string `yaml:"path"`
	Outcome  string `yaml:"outcome"`
	Command  string `yaml:"command"`
	Duration string `yaml:"duration,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// FromRun converts a run record.
func FromRun(run domain.RunRecord) Report {
	r := Report{
		RunID:       run.ID,
		Status:      string(run.Status),
		ExitCode:    run.ExitCode,
		Error:       run.Error,
		StartedAt:   run.StartedAt.UTC(),
		FinishedAt:  run.FinishedAt.UTC(),
		Execute:     run.Config.Execute,
		Stages:      StageRange{From: run.Config.FromStage, To: run.Config.ToStage},
		SkipTop2Vec: run.Config.SkipTop2Vec,
		Paths: PathsReport{
			Root:    run.Paths.Root,
			Data:    run.Paths.DataDir,
			Models:  run.Paths.ModelsDir,
			Results: run.Paths.ResultsDir,
		},
		Units: make([]UnitReport, 0, len(run.Units)),
	}
	for _, u := range run.Units {
		ur := UnitReport{
			ID:      u.UnitID,
			Stage:   u.Stage,
			Path:    u.Path,
			Outcome: string(u.Outcome),
			Command: u.Command,
			Error:   u.Error,
		}
		if d := u.Duration(); d > 0 {
			ur.Duration = d.Round(time.Millisecond).String()
		}
		r.Units = append(r.Units, ur)
	}
	return r
}

// Encode writes run as YAML to w.
func Encode(w io.Writer, run domain.RunRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromRun(run)); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

// WriteFile writes run as YAML to path, creating parent directories.
func WriteFile(path string, run domain.RunRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := Encode(f, run); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
