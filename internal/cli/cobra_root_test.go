package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "todo-list/internal/errors"
)

// runCLI executes a fresh command tree with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetErr(&errOut)
	root.Command().SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "todo dev\n", out)
}

func TestOverridesFromFlags(t *testing.T) {
	root := NewRootCommand()
	require.NoError(t, root.Command().PersistentFlags().Parse([]string{
		"--addr", "127.0.0.1:9000",
		"--serialize=false",
		"--rate-rps", "2",
		"--debug",
	}))

	overrides := root.overridesFromFlags()

	require.NotNil(t, overrides.Addr)
	assert.Equal(t, "127.0.0.1:9000", *overrides.Addr)
	require.NotNil(t, overrides.SerializeRequests)
	assert.False(t, *overrides.SerializeRequests)
	require.NotNil(t, overrides.RateRPS)
	assert.Equal(t, 2.0, *overrides.RateRPS)
	require.NotNil(t, overrides.Debug)
	assert.True(t, *overrides.Debug)

	// flags left alone do not override anything
	assert.Nil(t, overrides.DBDir)
	assert.Nil(t, overrides.TimeZone)
	assert.Nil(t, overrides.BusyTimeout)
}

func TestLoadConfig_FlagsApplied(t *testing.T) {
	dir := t.TempDir()
	root := NewRootCommand()
	root.Command().SetErr(&bytes.Buffer{})
	require.NoError(t, root.Command().PersistentFlags().Parse([]string{
		"--db-dir", dir,
		"--timezone", "UTC",
	}))

	require.NoError(t, root.loadConfig())
	assert.Equal(t, filepath.Join(dir, "task.db"), root.config.GetDatabasePath())
	assert.Equal(t, "UTC", root.config.Time.Zone)
	assert.NotNil(t, root.logger)
}

func TestLoadConfig_InvalidTimeZone(t *testing.T) {
	_, err := runCLI(t, "--timezone", "Mars/Olympus", "version")
	assert.Error(t, err)
}

func TestImportExport_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(input, []byte("task\nbuy milk\n\nwalk dog\n"), 0o644))

	out, err := runCLI(t, "--db-dir", dir, "import", input)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 tasks\n", out)

	exported := filepath.Join(dir, "export.csv")
	out, err = runCLI(t, "--db-dir", dir, "--timezone", "UTC", "export", "--out", exported)
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := os.ReadFile(exported)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Task,Completed,Created At,Updated At", lines[0])
	// one import batch shares a timestamp, so the higher id lists first
	assert.Contains(t, lines[1], ",walk dog,False,")
	assert.Contains(t, lines[2], ",buy milk,False,")
	assert.True(t, strings.HasSuffix(lines[1], "+00:00"))

	// an export reads back through its Task column
	out, err = runCLI(t, "--db-dir", dir, "import", exported)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 tasks\n", out)

	out, err = runCLI(t, "--db-dir", dir, "export")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(out, "\r\n"), "\r\n"), 5)
}

func TestImport_SingleTask(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "one.csv")
	require.NoError(t, os.WriteFile(input, []byte("only one\n"), 0o644))

	out, err := runCLI(t, "--db-dir", dir, "import", input)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 task\n", out)
}

func TestImport_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "--db-dir", dir, "import", filepath.Join(dir, "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to import tasks")
}

func TestImport_RequiresOneArgument(t *testing.T) {
	_, err := runCLI(t, "--db-dir", t.TempDir(), "import")
	assert.Error(t, err)
}

func TestOpenServices_UnknownVariant(t *testing.T) {
	root := NewRootCommand()
	_, closeFn, err := root.openServices("redis")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	assert.Contains(t, err.Error(), "unknown storage variant")
	assert.NoError(t, closeFn())
}
