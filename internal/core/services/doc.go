// Package services implements the driving port interfaces.
// Services contain the core pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// Path resolution is pure: it only consults injected lookups, so it can be
// exercised without touching the filesystem. Directory creation happens in
// a separate Ensure step.
package services
