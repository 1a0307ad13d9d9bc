package logger

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func reset(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetTimestamps(false)
		SetOutput(os.Stderr)
		now = time.Now
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	reset(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := reset(t)
	SetVerbose(true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := reset(t)
	SetVerbose(false)

	Debug("test message")
	Info("info message")
	Section("Pipeline")

	assert.Empty(t, buf.String())
}

func TestInfo_WhenVerbose(t *testing.T) {
	buf := reset(t)
	SetVerbose(true)

	Info("run %d", 3)

	assert.Equal(t, "[INFO] run 3\n", buf.String())
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	buf := reset(t)
	SetVerbose(false)

	Warn("disk %s", "full")

	assert.Equal(t, "[WARN] disk full\n", buf.String())
}

func TestSection_WhenVerbose(t *testing.T) {
	buf := reset(t)
	SetVerbose(true)

	Section("Pipeline")

	assert.Equal(t, "\n=== Pipeline ===\n", buf.String())
}

func TestTimestamps(t *testing.T) {
	buf := reset(t)
	SetVerbose(true)
	SetTimestamps(true)
	now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}

	Info("started")

	assert.Equal(t, "2024-05-01T12:00:00Z [INFO] started\n", buf.String())
}
