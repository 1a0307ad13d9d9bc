package nbconvert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/htm/internal/core/domain"
)

// fakePython writes a shell script standing in for the interpreter. It
// records its arguments and two environment variables, then exits with
// FAKE_EXIT.
func fakePython(t *testing.T) (script, outDir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script interpreter not available on windows")
	}

	outDir = t.TempDir()
	script = filepath.Join(outDir, "python")
	body := `#!/bin/sh
echo "$@" > "$FAKE_OUT/args"
echo "${HTM_ROOT:-unset}" > "$FAKE_OUT/root"
echo "${HTM_LEAK:-unset}" > "$FAKE_OUT/leak"
echo "notebook output"
exit "${FAKE_EXIT:-0}"
`
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return script, outDir
}

func readTrimmed(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestNew_DefaultsPython(t *testing.T) {
	e := New("")
	assert.Equal(t, domain.DefaultPython, e.Python())
}

func TestCommand(t *testing.T) {
	e := New("/opt/conda/bin/python")

	argv := e.Command("notebooks/stage 1.ipynb")

	assert.Equal(t, []string{
		"/opt/conda/bin/python", "-m", "jupyter", "nbconvert",
		"--to", "notebook", "--execute", "--inplace",
		"notebooks/stage 1.ipynb",
	}, argv)
}

func TestExecute_PassesArgsAndEnvironment(t *testing.T) {
	script, outDir := fakePython(t)
	t.Setenv("HTM_LEAK", "from-parent")

	var stdout, stderr bytes.Buffer
	e := New(script, WithOutput(&stdout, &stderr))
	env := domain.NewEnvironment([]string{
		"FAKE_OUT=" + outDir,
		"HTM_ROOT=/srv/htm",
	})

	err := e.Execute(context.Background(), "/nb/stage1.ipynb", env)

	require.NoError(t, err)
	assert.Equal(t, "-m jupyter nbconvert --to notebook --execute --inplace /nb/stage1.ipynb",
		readTrimmed(t, filepath.Join(outDir, "args")))
	assert.Equal(t, "/srv/htm", readTrimmed(t, filepath.Join(outDir, "root")))
	assert.Equal(t, "unset", readTrimmed(t, filepath.Join(outDir, "leak")),
		"child must only see the derived environment")
	assert.Contains(t, stdout.String(), "notebook output")
}

func TestExecute_NonZeroExit(t *testing.T) {
	script, outDir := fakePython(t)

	var out bytes.Buffer
	e := New(script, WithOutput(&out, &out))
	env := domain.NewEnvironment([]string{"FAKE_OUT=" + outDir, "FAKE_EXIT=3"})

	err := e.Execute(context.Background(), "/nb/stage2.ipynb", env)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage2.ipynb exited with status 3")
}

func TestExecute_MissingInterpreter(t *testing.T) {
	e := New(filepath.Join(t.TempDir(), "no-such-python"))

	err := e.Execute(context.Background(), "/nb/stage1.ipynb", domain.NewEnvironment(nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "running")
}

func TestExecute_CancelledContext(t *testing.T) {
	script, outDir := fakePython(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	e := New(script, WithOutput(&out, &out))

	err := e.Execute(ctx, "/nb/stage1.ipynb", domain.NewEnvironment([]string{"FAKE_OUT=" + outDir}))

	assert.Error(t, err)
}
