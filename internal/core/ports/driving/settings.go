package driving

import "github.com/custodia-labs/htm/internal/core/domain"

// SettingsService manages tool settings.
type SettingsService interface {
	// Get returns the effective settings, defaults filled in.
	Get() domain.Settings

	// Set validates and persists a single key.
	Set(key, value string) error

	// Values returns every stored key with its raw value.
	Values() map[string]any

	// Path returns the location of the settings file.
	Path() string
}
