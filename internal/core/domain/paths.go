package domain

import (
	"fmt"
	"os"
)

// Environment variable names read by path resolution.
const (
	EnvRoot       = "HTM_ROOT"
	EnvBaseDir    = "HTM_BASE_DIR"
	EnvDataDir    = "HTM_DATA_DIR"
	EnvModelsDir  = "HTM_MODELS_DIR"
	EnvResultsDir = "HTM_RESULTS_DIR"
	EnvConfigDir  = "HTM_CONFIG_DIR"
)

// Default subdirectory names under the project root.
const (
	DefaultDataDirName    = "data"
	DefaultModelsDirName  = "models"
	DefaultResultsDirName = "results_artifacts"
)

// ProjectPaths is the resolved project layout for one invocation.
// All four paths are absolute.
type ProjectPaths struct {
	// Root is the project root directory.
	Root string

	// DataDir holds datasets and preprocessed corpora.
	DataDir string

	// ModelsDir holds trained topic models.
	ModelsDir string

	// ResultsDir holds evaluation artefacts.
	ResultsDir string
}

// Dirs returns the three working directories in creation order.
func (p ProjectPaths) Dirs() []string {
	return []string{p.DataDir, p.ModelsDir, p.ResultsDir}
}

// Ensure creates the working directories and any missing parents.
// It is idempotent and does not modify p.
func (p ProjectPaths) Ensure() error {
	for _, dir := range p.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %w", ErrFilesystem, dir, err)
		}
	}
	return nil
}
