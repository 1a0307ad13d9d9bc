package domain

import "strconv"

// Configuration keys stored in the TOML config file.
const (
	KeyExecutorPython      = "executor.python"
	KeyPipelineNotebookDir = "pipeline.notebook_dir"
	KeyHistoryEnabled      = "history.enabled"
)

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python3"

// Settings are the tool defaults loaded from the config file.
type Settings struct {
	// Python is the interpreter that runs jupyter.
	Python string

	// NotebookDir is the default base directory for unit paths.
	NotebookDir string

	// HistoryEnabled controls whether runs are recorded.
	HistoryEnabled bool
}

// DefaultSettings returns settings used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		Python:         DefaultPython,
		HistoryEnabled: true,
	}
}

// KnownSettingKeys lists the keys accepted by `config set`.
func KnownSettingKeys() []string {
	return []string{KeyExecutorPython, KeyPipelineNotebookDir, KeyHistoryEnabled}
}

// IsKnownSettingKey reports whether key is a recognised configuration key.
func IsKnownSettingKey(key string) bool {
	for _, k := range KnownSettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ParseSettingValue converts a raw CLI value to the type stored for key.
func ParseSettingValue(key, raw string) (any, error) {
	if key == KeyHistoryEnabled {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, ErrInvalidInput
		}
		return b, nil
	}
	return raw, nil
}
