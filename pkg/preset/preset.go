// Package preset defines named bundles of setting values that configure
// the store for a common build shape in one action.
package preset

import (
	"github.com/BuildForge/buildforge/pkg/config"
)

// Assignment is one key/value pair a preset applies.
type Assignment struct {
	Key   string
	Value any
}

// Definition is a named, immutable preset.
type Definition struct {
	Name        string
	Description string
	Applies     []Assignment
}

// Change records one store mutation made while applying a preset.
type Change struct {
	Key      string
	Previous any
	Value    any
}

// Builtin is the preset catalogue, in display order.
var Builtin = []Definition{
	{
		Name:        "standalone-gui",
		Description: "Standalone app with no console window.",
		Applies: []Assignment{
			{Key: "basic.mode", Value: "standalone"},
			{Key: "modules.follow_imports", Value: true},
			{Key: "output.show_progress", Value: true},
			{Key: "platform.windows.console_mode", Value: "disable"},
		},
	},
	{
		Name:        "cli-tool",
		Description: "Standalone CLI build with console.",
		Applies: []Assignment{
			{Key: "basic.mode", Value: "standalone"},
			{Key: "modules.follow_imports", Value: true},
			{Key: "platform.windows.console_mode", Value: "force"},
		},
	},
	{
		Name:        "onefile",
		Description: "Single-file distribution.",
		Applies: []Assignment{
			{Key: "basic.mode", Value: "onefile"},
			{Key: "modules.follow_imports", Value: true},
			{Key: "output.show_progress", Value: true},
		},
	},
	{
		Name:        "debug-trace",
		Description: "Verbose debug instrumentation.",
		Applies: []Assignment{
			{Key: "advanced.debug", Value: true},
			{Key: "advanced.trace_execution", Value: true},
			{Key: "advanced.unstripped", Value: true},
		},
	},
	{
		Name:        "minimal-size",
		Description: "Aggressive size reduction.",
		Applies: []Assignment{
			{Key: "advanced.lto", Value: "yes"},
			{Key: "output.show_progress", Value: false},
			{Key: "output.quiet", Value: true},
		},
	},
	{
		Name:        "max-compat",
		Description: "Maximum compatibility settings.",
		Applies: []Assignment{
			{Key: "modules.follow_stdlib", Value: true},
			{Key: "advanced.static_libpython", Value: false},
		},
	},
}

// Get returns the builtin preset with the given name.
func Get(name string) (Definition, bool) {
	for _, preset := range Builtin {
		if preset.Name == name {
			return preset, true
		}
	}
	return Definition{}, false
}

// Apply writes the preset's assignments into the store and returns the
// changes actually made; assignments matching the current value are
// skipped so applying a preset twice is a no-op.
func Apply(store *config.Store, preset Definition) []Change {
	var changes []Change
	for _, assignment := range preset.Applies {
		previous := store.Get(assignment.Key)
		if previous == assignment.Value {
			continue
		}
		store.Set(assignment.Key, assignment.Value)
		changes = append(changes, Change{
			Key:      assignment.Key,
			Previous: previous,
			Value:    assignment.Value,
		})
	}
	return changes
}
