package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	registry := testRegistry(t)
	s := NewStore(registry)
	s.Set("basic.mode", "onefile")
	s.Set("advanced.packages", []any{"requests"})

	path := filepath.Join(t.TempDir(), "nested", "config.json")
	require.NoError(t, s.Save(path))
	assert.Equal(t, path, s.FilePath())

	loaded := NewStore(registry)
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, "onefile", loaded.GetString("basic.mode"))
	assert.Equal(t, []string{"requests"}, loaded.GetStringList("advanced.packages"))
	assert.Equal(t, path, loaded.FilePath())
}

func TestSaveWritesValidIndentedJSON(t *testing.T) {
	s := NewStore(testRegistry(t))
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "basic")
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := NewStore(testRegistry(t))
	dir := t.TempDir()
	require.NoError(t, s.Save(filepath.Join(dir, "config.json")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.json", entries[0].Name())
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(testRegistry(t))
	err := s.Load(filepath.Join(t.TempDir(), "absent.json"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, LoadErrorNotFound, loadErr.Kind)
}

func TestLoadMalformedKeepsState(t *testing.T) {
	s := NewStore(testRegistry(t))
	s.Set("basic.mode", "onefile")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	err := s.Load(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, LoadErrorMalformed, loadErr.Kind)

	// In-memory state survives the failed load.
	assert.Equal(t, "onefile", s.GetString("basic.mode"))
	assert.Empty(t, s.FilePath())
}

func TestLoadNullDocument(t *testing.T) {
	s := NewStore(testRegistry(t))
	path := filepath.Join(t.TempDir(), "null.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

	err := s.Load(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, LoadErrorMalformed, loadErr.Kind)
}

func TestLoadPreservesUnknownKeysThroughSave(t *testing.T) {
	registry := testRegistry(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"basic": {"mode": "onefile"},
		"future": {"option": 42}
	}`), 0o600))

	s := NewStore(registry)
	require.NoError(t, s.Load(path))
	assert.Equal(t, []string{"future.option"}, s.Unrecognized())

	// A save/load cycle keeps the unknown subtree intact.
	out := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, s.Save(out))

	again := NewStore(registry)
	require.NoError(t, again.Load(out))
	assert.Equal(t, float64(42), again.Get("future.option"))
}
