package driven

import (
	"context"

	"github.com/custodia-labs/htm/internal/core/domain"
)

// NotebookExecutor runs a notebook in place through an external tool.
type NotebookExecutor interface {
	// Command returns the argv that Execute would run for path.
	Command(path string) []string

	// Execute runs the notebook at path synchronously with env as the
	// complete child environment. A non-zero exit is returned as an error.
	Execute(ctx context.Context, path string, env domain.Environment) error
}
