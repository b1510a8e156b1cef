package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuildForge/buildforge/pkg/runner"
	"github.com/BuildForge/buildforge/pkg/state"
	"github.com/BuildForge/buildforge/pkg/validate"
)

func newTestEngine(t *testing.T, settings Settings) *Engine {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()

	e, err := New(settings)
	require.NoError(t, err)
	return e
}

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, os.WriteFile(path, []byte("print('hi')\n"), 0o600))
	return path
}

func TestNewUsesEmbeddedSchema(t *testing.T) {
	e := newTestEngine(t, Settings{})

	assert.Equal(t, "nuitka", e.Registry().Tool().Name)
	assert.Greater(t, e.Registry().Len(), 0)
}

func TestToolCommandOverride(t *testing.T) {
	e := newTestEngine(t, Settings{ToolCommand: []string{"python3.12", "-m", "nuitka"}})

	assert.Equal(t, []string{"python3.12", "-m", "nuitka"}, e.ToolCommand())

	e.Store().Set("basic.input_file", writeScript(t))
	argv, err := e.CommandLine()
	require.NoError(t, err)
	assert.Equal(t, "python3.12", argv[0])
}

func TestToolCommandDefaultsToSchema(t *testing.T) {
	e := newTestEngine(t, Settings{})
	assert.Equal(t, []string{"python", "-m", "nuitka"}, e.ToolCommand())
}

func TestValidateAllFlagsUnknownKeys(t *testing.T) {
	e := newTestEngine(t, Settings{})
	e.Store().Set("basic.input_file", writeScript(t))
	e.Store().Set("future.new_option", true)

	results := e.ValidateAll()
	unknown := results.ForField("future.new_option")
	require.Len(t, unknown, 1)
	assert.Equal(t, validate.SeverityWarning, unknown[0].Severity)
	assert.Equal(t, "unknown-key", unknown[0].Rule)
}

func TestStartBuildBlockedByValidationErrors(t *testing.T) {
	e := newTestEngine(t, Settings{})

	// No input file set: the required rule reports an error.
	_, err := e.StartBuild(runner.Callbacks{})

	var vErr *ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Results.Errors())
	assert.False(t, e.Running())
}

func TestStartBuildRunsAndRecordsScript(t *testing.T) {
	e := newTestEngine(t, Settings{ToolCommand: []string{"true"}, GracePeriod: time.Second})

	script := writeScript(t)
	e.Store().Set("basic.input_file", script)

	handle, err := e.StartBuild(runner.Callbacks{})
	require.NoError(t, err)

	<-handle.Done()
	assert.Equal(t, runner.StatusCompleted, handle.Outcome().Status)
	assert.Contains(t, e.Recent().Get(state.ListScripts), script)
}

func TestSaveAndLoadConfigTracksRecent(t *testing.T) {
	e := newTestEngine(t, Settings{})
	e.Store().Set("basic.mode", "onefile")

	path := filepath.Join(t.TempDir(), "proj.json")
	require.NoError(t, e.SaveConfig(path))
	assert.Contains(t, e.Recent().Get(state.ListConfigs), path)

	e.Store().ResetAll()
	assert.Equal(t, "standalone", e.Store().GetString("basic.mode"))

	require.NoError(t, e.LoadConfig(path))
	assert.Equal(t, "onefile", e.Store().GetString("basic.mode"))
}

func TestApplyPreset(t *testing.T) {
	e := newTestEngine(t, Settings{})

	changes, err := e.ApplyPreset("onefile")
	require.NoError(t, err)
	assert.NotEmpty(t, changes)
	assert.Equal(t, "onefile", e.Store().GetString("basic.mode"))

	_, err = e.ApplyPreset("no-such-preset")
	assert.Error(t, err)
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("BUILDFORGE_SCHEMA", "/tmp/custom.json")
	t.Setenv("BUILDFORGE_TOOL", "python3 -m nuitka")
	t.Setenv("BUILDFORGE_GRACE_PERIOD", "10s")

	s := SettingsFromEnv()
	assert.Equal(t, "/tmp/custom.json", s.SchemaPath)
	assert.Equal(t, []string{"python3", "-m", "nuitka"}, s.ToolCommand)
	assert.Equal(t, 10*time.Second, s.GracePeriod)
}
