package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/htm/internal/core/domain"
	"github.com/custodia-labs/htm/internal/logger"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "log-timestamps"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_InvalidArgumentsExitWithInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"non-numeric stage", []string{"run", "--from-stage", "abc"}},
		{"unknown flag", []string{"run", "--bogus"}},
		{"missing flag value", []string{"run", "--to-stage"}},
		{"unexpected argument", []string{"run", "extra"}},
		{"tui unknown flag", []string{"tui", "--bogus"}},
		{"stages bad stage", []string{"stages", "--to-stage", "five"}},
		{"paths argument", []string{"paths", "/somewhere"}},
		{"history bad limit", []string{"history", "--limit", "many"}},
		{"config set one argument", []string{"config", "set", "executor.python"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupCLI(t)

			_, err := executeCommand(t, tt.args...)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, domain.ExitInvalidInput, domain.ExitCode(err))
			assert.Empty(t, f.options, "no pipeline is built")
		})
	}
}

func TestRootCmd_LogTimestamps(t *testing.T) {
	setupCLI(t)
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	_, err := executeCommand(t, "version", "--log-timestamps")
	require.NoError(t, err)
	logger.Warn("stamped")

	_, err = executeCommand(t, "version")
	require.NoError(t, err)
	logger.Warn("plain")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\S+ \[WARN\] stamped$`), string(lines[0]))
	assert.Equal(t, "[WARN] plain", string(lines[1]))
}

func TestRootCmd_FlagsDoNotCarryOverBetweenRuns(t *testing.T) {
	f := setupCLI(t)
	f.writeNotebooks(t)
	reportPath := filepath.Join(f.root, "first.yaml")

	_, err := executeCommand(t, "run", "--project-root", f.root, "--execute", "--report", reportPath, "--no-history")
	require.NoError(t, err)
	require.NoError(t, os.Remove(reportPath))
	executed := len(f.executor.executed)

	out, err := executeCommand(t, "run", "--project-root", f.root)

	require.NoError(t, err)
	assert.Contains(t, out, "Execute notebooks  : false")
	assert.Contains(t, out, "DRY-RUN:")
	assert.Len(t, f.executor.executed, executed, "second run is a dry-run")
	assert.NoFileExists(t, reportPath)
	require.Len(t, f.options, 2)
	assert.False(t, f.options[0].Record)
	assert.True(t, f.options[1].Record)
}
