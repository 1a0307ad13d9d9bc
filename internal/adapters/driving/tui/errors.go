package tui

import "errors"

// ErrMissingRunner is returned when no pipeline runner is provided.
var ErrMissingRunner = errors.New("tui: pipeline runner is required")
