// Package domain defines the core entities of the htm pipeline runner.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ProjectPaths: The resolved project root and its working directories
//   - Unit: One notebook in the pipeline, grouped into numbered stages
//   - Catalog: The fixed, ordered list of pipeline units
//   - RunConfig: The options of a single pipeline invocation
//   - Environment: An immutable snapshot of the child process environment
//   - RunRecord: The persisted outcome of a run and its units
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
