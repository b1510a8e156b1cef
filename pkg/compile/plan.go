// Package compile turns a configuration snapshot plus the setting schema
// into the argv of a build invocation. Compilation is pure: no I/O, no
// side effects, and the same configuration always yields byte-identical
// command text.
package compile

import (
	"github.com/BuildForge/buildforge/pkg/schema"
)

// GroupOrder fixes the relative order of flag groups in the rendered
// command. Groups not listed sort last.
var GroupOrder = []string{
	"mode",
	"output",
	"imports",
	"data",
	"platform",
	"opt",
	"compat",
	"debug",
	"runtime",
	"plugins",
	"misc",
}

// Atom is one emitted argument with its provenance: the setting keys it
// was derived from and the group that orders it.
type Atom struct {
	// ID identifies the atom across plans, for diffing. List-derived
	// atoms suffix the element value so additions and removals show up
	// individually.
	ID      string   `json:"id"`
	Args    []string `json:"args"`
	Sources []string `json:"sources"`
	Group   string   `json:"group"`
}

// Plan is the compiled form of a configuration: the target tool, the
// ordered flag atoms, and the trailing positional entry script.
type Plan struct {
	Tool        schema.Tool `json:"tool"`
	Atoms       []Atom      `json:"atoms"`
	EntryScript string      `json:"entry_script,omitempty"`
}

// groupRank maps a group name to its position in GroupOrder.
func groupRank(group string) int {
	for i, name := range GroupOrder {
		if name == group {
			return i
		}
	}
	return len(GroupOrder)
}
