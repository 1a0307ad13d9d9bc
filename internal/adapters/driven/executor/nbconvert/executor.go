package nbconvert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
)

// Ensure Executor implements the interface.
var _ driven.NotebookExecutor = (*Executor)(nil)

// Executor launches jupyter nbconvert for one notebook at a time.
type Executor struct {
	python string
	stdout io.Writer
	stderr io.Writer
}

// Option customises an Executor.
type Option func(*Executor)

// WithOutput redirects the child's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdout = stdout
		e.stderr = stderr
	}
}

// New creates an executor using python as the interpreter.
// An empty python falls back to domain.DefaultPython.
func New(python string, opts ...Option) *Executor {
	if python == "" {
		python = domain.DefaultPython
	}
	e := &Executor{
		python: python,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Python returns the configured interpreter.
func (e *Executor) Python() string {
	return e.python
}

// Command returns the argv used to execute path.
func (e *Executor) Command(path string) []string {
	return []string{
		e.python, "-m", "jupyter", "nbconvert",
		"--to", "notebook",
		"--execute",
		"--inplace",
		path,
	}
}

// Execute runs the notebook synchronously in the caller's working
// directory. Cancelling ctx kills the child.
func (e *Executor) Execute(ctx context.Context, path string, env domain.Environment) error {
	argv := e.Command(path)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // argv is built from config, not user content
	cmd.Env = env.Environ()
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with status %d", filepath.Base(path), exitErr.ExitCode())
		}
		return fmt.Errorf("running %s: %w", argv[0], err)
	}
	return nil
}
