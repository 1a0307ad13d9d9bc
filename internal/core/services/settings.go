package services

import (
	"fmt"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/core/ports/driven"
	"github.com/custodia-labs/htm/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages tool settings stored in a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the stored settings with defaults for anything unset.
func (s *SettingsService) Get() domain.Settings {
	settings := domain.DefaultSettings()
	if s.configStore == nil {
		return settings
	}

	if v := s.configStore.GetString(domain.KeyExecutorPython); v != "" {
		settings.Python = v
	}
	settings.NotebookDir = s.configStore.GetString(domain.KeyPipelineNotebookDir)
	if _, ok := s.configStore.Get(domain.KeyHistoryEnabled); ok {
		settings.HistoryEnabled = s.configStore.GetBool(domain.KeyHistoryEnabled)
	}
	return settings
}

// Set validates key and value and persists them.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return fmt.Errorf("config store not configured")
	}
	if !domain.IsKnownSettingKey(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	parsed, err := domain.ParseSettingValue(key, value)
	if err != nil {
		return fmt.Errorf("%w: %s expects a boolean, got %q", domain.ErrInvalidInput, key, value)
	}
	return s.configStore.Set(key, parsed)
}

// Values returns every stored key with its value.
func (s *SettingsService) Values() map[string]any {
	out := make(map[string]any)
	if s.configStore == nil {
		return out
	}
	for _, key := range s.configStore.Keys() {
		if v, ok := s.configStore.Get(key); ok {
			out[key] = v
		}
	}
	return out
}

// Path returns the settings file location.
func (s *SettingsService) Path() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.Path()
}
