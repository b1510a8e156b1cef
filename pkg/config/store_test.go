package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuildForge/buildforge/pkg/schema"
)

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	doc := []byte(fmt.Sprintf(`{
		"tool": {"name": "nuitka", "command": ["python", "-m", "nuitka"]},
		"tabs": [{
			"id": "basic",
			"title": "Basic",
			"sections": [{"id": "main", "title": "Main", "settings": [%s]}]
		}]
	}`, `
		{"key": "basic.input_file", "type": "path-file", "positional": true},
		{"key": "basic.mode", "type": "enum", "default": "standalone",
		 "enum": {"values": ["standalone", "onefile"], "variants": {"standalone": "--standalone", "onefile": "--onefile"}}},
		{"key": "basic.quiet", "type": "boolean", "flag": "--quiet"},
		{"key": "advanced.jobs", "type": "integer", "flag": "--jobs={value}", "default": 2},
		{"key": "advanced.packages", "type": "string-list", "flag": "--include-package={value}"}
	`))
	registry, err := schema.Parse(doc, "schema.json")
	require.NoError(t, err)
	return registry
}

func TestNewStoreSeedsDefaults(t *testing.T) {
	s := NewStore(testRegistry(t))

	assert.Equal(t, "standalone", s.GetString("basic.mode"))
	assert.Equal(t, 2, s.Get("advanced.jobs"))
	assert.False(t, s.GetBool("basic.quiet"))
	assert.Empty(t, s.Unrecognized())
}

func TestSetAndTypedGetters(t *testing.T) {
	s := NewStore(testRegistry(t))

	s.Set("basic.quiet", true)
	s.Set("advanced.packages", []any{"requests", "numpy"})

	assert.True(t, s.GetBool("basic.quiet"))
	assert.Equal(t, []string{"requests", "numpy"}, s.GetStringList("advanced.packages"))
	assert.Equal(t, "fallback", s.GetOr("no.such.key", "fallback"))
}

func TestSetTracksUnrecognizedKeys(t *testing.T) {
	s := NewStore(testRegistry(t))

	s.Set("future.option", 7)
	s.Set("basic.quiet", true)

	assert.Equal(t, []string{"future.option"}, s.Unrecognized())
}

func TestResetRestoresDefault(t *testing.T) {
	s := NewStore(testRegistry(t))

	s.Set("basic.mode", "onefile")
	s.Reset("basic.mode")
	assert.Equal(t, "standalone", s.GetString("basic.mode"))

	// Resetting an already-default key changes nothing.
	s.Reset("basic.mode")
	assert.Equal(t, "standalone", s.GetString("basic.mode"))
}

func TestResetRemovesUnrecognizedKey(t *testing.T) {
	s := NewStore(testRegistry(t))

	s.Set("future.option", 7)
	s.Reset("future.option")

	assert.False(t, s.Has("future.option"))
	assert.Empty(t, s.Unrecognized())
}

func TestResetAll(t *testing.T) {
	s := NewStore(testRegistry(t))

	s.Set("basic.mode", "onefile")
	s.Set("future.option", 7)
	s.ResetAll()

	assert.Equal(t, "standalone", s.GetString("basic.mode"))
	assert.False(t, s.Has("future.option"))
	assert.Empty(t, s.Unrecognized())
}

func TestToMapReturnsIsolatedCopy(t *testing.T) {
	s := NewStore(testRegistry(t))
	s.Set("advanced.packages", []any{"requests"})

	snapshot := s.ToMap()
	advanced := snapshot["advanced"].(map[string]any)
	advanced["jobs"] = 99
	advanced["packages"].([]any)[0] = "tampered"

	assert.Equal(t, 2, s.Get("advanced.jobs"))
	assert.Equal(t, []string{"requests"}, s.GetStringList("advanced.packages"))
}

func TestFromMapMergesOverDefaults(t *testing.T) {
	s := NewStore(testRegistry(t))

	s.FromMap(map[string]any{
		"basic":  map[string]any{"mode": "onefile"},
		"future": map[string]any{"option": true},
	})

	// Present keys win, absent keys keep their defaults, unknown keys
	// are preserved and flagged.
	assert.Equal(t, "onefile", s.GetString("basic.mode"))
	assert.Equal(t, 2, s.Get("advanced.jobs"))
	assert.Equal(t, true, s.Get("future.option"))
	assert.Equal(t, []string{"future.option"}, s.Unrecognized())
}
