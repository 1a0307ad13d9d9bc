package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driving"
)

// Ensure PathResolver implements the interface.
var _ driving.PathResolver = (*PathResolver)(nil)

// Well-known notebook platform mounts, checked in order.
const (
	ColabDriveDir    = "/content/drive/MyDrive"
	KaggleWorkingDir = "/kaggle/working"

	// PlatformProjectDir is the project folder created under a platform mount.
	PlatformProjectDir = "HebrewTopicModel"
)

// repoMarkers identify a project root when walking up from the working directory.
var repoMarkers = []string{"README.md", ".git"}

// PathResolver computes ProjectPaths from an environment snapshot.
type PathResolver struct {
	env       domain.Environment
	exists    func(path string) bool
	getwd     func() (string, error)
	homeDir   func() (string, error)
	platforms []string
}

// PathResolverOption customises a PathResolver.
type PathResolverOption func(*PathResolver)

// WithExistsFunc replaces the filesystem existence check.
func WithExistsFunc(fn func(path string) bool) PathResolverOption {
	return func(r *PathResolver) {
		r.exists = fn
	}
}

// WithWorkingDir fixes the directory the marker search starts from.
func WithWorkingDir(dir string) PathResolverOption {
	return func(r *PathResolver) {
		r.getwd = func() (string, error) { return dir, nil }
	}
}

// WithHomeDir fixes the directory "~" expands to.
func WithHomeDir(dir string) PathResolverOption {
	return func(r *PathResolver) {
		r.homeDir = func() (string, error) { return dir, nil }
	}
}

// WithPlatformMounts replaces the platform mount list.
func WithPlatformMounts(mounts ...string) PathResolverOption {
	return func(r *PathResolver) {
		r.platforms = mounts
	}
}

// NewPathResolver creates a resolver reading variables from env.
func NewPathResolver(env domain.Environment, opts ...PathResolverOption) *PathResolver {
	r := &PathResolver{
		env:       env,
		exists:    pathExists,
		getwd:     os.Getwd,
		homeDir:   os.UserHomeDir,
		platforms: []string{ColabDriveDir, KaggleWorkingDir},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve computes the project paths. An explicit root bypasses the
// environment, platform mounts and marker search.
func (r *PathResolver) Resolve(explicitRoot string) (domain.ProjectPaths, error) {
	var (
		root string
		err  error
	)
	if explicitRoot != "" {
		root, err = r.absolute(explicitRoot)
	} else {
		root, err = r.defaultRoot()
	}
	if err != nil {
		return domain.ProjectPaths{}, err
	}

	data, err := r.subdir(root, domain.EnvDataDir, domain.DefaultDataDirName)
	if err != nil {
		return domain.ProjectPaths{}, err
	}
	models, err := r.subdir(root, domain.EnvModelsDir, domain.DefaultModelsDirName)
	if err != nil {
		return domain.ProjectPaths{}, err
	}
	results, err := r.subdir(root, domain.EnvResultsDir, domain.DefaultResultsDirName)
	if err != nil {
		return domain.ProjectPaths{}, err
	}

	return domain.ProjectPaths{
		Root:       root,
		DataDir:    data,
		ModelsDir:  models,
		ResultsDir: results,
	}, nil
}

// Ensure creates the working directories of paths.
func (r *PathResolver) Ensure(paths domain.ProjectPaths) error {
	return paths.Ensure()
}

func (r *PathResolver) defaultRoot() (string, error) {
	for _, key := range []string{domain.EnvRoot, domain.EnvBaseDir} {
		if v := r.env.Get(key); v != "" {
			return r.absolute(v)
		}
	}

	for _, mount := range r.platforms {
		if r.exists(mount) {
			return filepath.Join(mount, PlatformProjectDir), nil
		}
	}

	cwd, err := r.getwd()
	if err != nil {
		return "", fmt.Errorf("%w: determine working directory: %w", domain.ErrFilesystem, err)
	}
	return r.findRepoRoot(filepath.Clean(cwd)), nil
}

// findRepoRoot returns the nearest ancestor of start, start included,
// containing a repository marker. Falls back to start.
func (r *PathResolver) findRepoRoot(start string) string {
	dir := start
	for {
		for _, marker := range repoMarkers {
			if r.exists(filepath.Join(dir, marker)) {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func (r *PathResolver) subdir(root, key, name string) (string, error) {
	if v := r.env.Get(key); v != "" {
		return r.absolute(v)
	}
	return filepath.Join(root, name), nil
}

// absolute expands a leading "~" and anchors relative paths at the
// working directory.
func (r *PathResolver) absolute(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		home, err := r.homeDir()
		if err != nil {
			return "", fmt.Errorf("%w: expand %q: %w", domain.ErrFilesystem, p, err)
		}
		p = filepath.Join(home, p[1:])
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	cwd, err := r.getwd()
	if err != nil {
		return "", fmt.Errorf("%w: determine working directory: %w", domain.ErrFilesystem, err)
	}
	return filepath.Join(cwd, p), nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
