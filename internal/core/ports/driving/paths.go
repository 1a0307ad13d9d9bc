package driving

import "github.com/custodia-labs/htm/internal/core/domain"

// PathResolver computes the project layout.
type PathResolver interface {
	// Resolve computes the project paths without touching the filesystem
	// beyond existence checks. An empty explicitRoot selects the automatic
	// resolution order.
	Resolve(explicitRoot string) (domain.ProjectPaths, error)

	// Ensure creates the working directories of paths.
	Ensure(paths domain.ProjectPaths) error
}
