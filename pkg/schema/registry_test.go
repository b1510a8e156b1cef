package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := Parse(docJSON(`
		{"key": "basic.input_file", "type": "path-file", "positional": true},
		{"key": "basic.quiet", "type": "boolean", "flag": "--quiet", "risk": "caution"},
		{"key": "basic.jobs", "type": "integer", "flag": "--jobs={value}", "default": 4},
		{"key": "basic.packages", "type": "string-list", "flag": "--include-package={value}"}
	`), "schema.json")
	require.NoError(t, err)
	return registry
}

func TestRegistryOrderAndLookup(t *testing.T) {
	registry := testRegistry(t)

	defs := registry.Definitions()
	require.Len(t, defs, 4)
	assert.Equal(t, "basic.input_file", defs[0].Key)
	assert.Equal(t, "basic.packages", defs[3].Key)

	def, err := registry.Lookup("basic.quiet")
	require.NoError(t, err)
	assert.Equal(t, "basic", def.TabID)
	assert.Equal(t, "main", def.SectionID)

	_, err = registry.Lookup("nope")
	var unknownErr *UnknownKeyError
	assert.ErrorAs(t, err, &unknownErr)
	assert.False(t, registry.Has("nope"))
}

func TestRegistryByRisk(t *testing.T) {
	registry := testRegistry(t)

	caution := registry.ByRisk(RiskCaution)
	require.Len(t, caution, 1)
	assert.Equal(t, "basic.quiet", caution[0].Key)

	assert.Len(t, registry.ByRisk(RiskSafe), 3)
	assert.Empty(t, registry.ByRisk(RiskExpert))
}

func TestRegistryDefaults(t *testing.T) {
	registry := testRegistry(t)

	defaults := registry.Defaults()
	basic, ok := defaults["basic"].(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "", basic["input_file"])
	assert.Equal(t, false, basic["quiet"])
	assert.Equal(t, 4, basic["jobs"])
	assert.Equal(t, []any{}, basic["packages"])
}

func TestDefaultForNormalizesJSONNumbers(t *testing.T) {
	def := &SettingDefinition{Type: TypeInteger, Default: float64(8)}
	assert.Equal(t, 8, DefaultFor(def))
}
