package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecent(t *testing.T) *Recent {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	return Open("buildforge-test")
}

func TestAddMovesToFront(t *testing.T) {
	r := newTestRecent(t)

	r.Add(ListConfigs, "a.json")
	r.Add(ListConfigs, "b.json")
	r.Add(ListConfigs, "a.json")

	assert.Equal(t, []string{"a.json", "b.json"}, r.Get(ListConfigs))
}

func TestAddTracksUseCount(t *testing.T) {
	r := newTestRecent(t)

	r.Add(ListScripts, "main.py")
	r.Add(ListScripts, "main.py")
	r.Add(ListScripts, "main.py")

	require.Len(t, r.lists[ListScripts], 1)
	assert.Equal(t, 3, r.lists[ListScripts][0].UseCount)
}

func TestAddTrimsToMax(t *testing.T) {
	r := newTestRecent(t)
	r.max = 3

	r.Add(ListConfigs, "one")
	r.Add(ListConfigs, "two")
	r.Add(ListConfigs, "three")
	r.Add(ListConfigs, "four")

	assert.Equal(t, []string{"four", "three", "two"}, r.Get(ListConfigs))
}

func TestAddIgnoresEmptyValue(t *testing.T) {
	r := newTestRecent(t)

	r.Add(ListConfigs, "")

	assert.Empty(t, r.Get(ListConfigs))
}

func TestRemoveAndClear(t *testing.T) {
	r := newTestRecent(t)

	r.Add(ListConfigs, "keep")
	r.Add(ListConfigs, "drop")
	r.Remove(ListConfigs, "drop")
	assert.Equal(t, []string{"keep"}, r.Get(ListConfigs))

	r.Clear(ListConfigs)
	assert.Empty(t, r.Get(ListConfigs))
}

func TestSaveAndReopen(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)
	xdg.Reload()

	r := Open("buildforge-test")
	r.Add(ListConfigs, "project.json")
	r.Add(ListScripts, "app.py")
	require.NoError(t, r.Save())

	_, err := os.Stat(filepath.Join(stateDir, "buildforge-test", "recent.json"))
	require.NoError(t, err)

	reopened := Open("buildforge-test")
	assert.Equal(t, []string{"project.json"}, reopened.Get(ListConfigs))
	assert.Equal(t, []string{"app.py"}, reopened.Get(ListScripts))
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	r := newTestRecent(t)
	assert.Empty(t, r.Get(ListConfigs))
}

func TestOpenCorruptFileIsEmpty(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)
	xdg.Reload()

	dir := filepath.Join(stateDir, "buildforge-test")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recent.json"), []byte("{nope"), 0o600))

	r := Open("buildforge-test")
	assert.Empty(t, r.Get(ListConfigs))
}
