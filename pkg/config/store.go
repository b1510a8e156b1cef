// Package config holds the live, mutable configuration tree the user
// edits, addressed by dotted paths mirroring the schema's namespaces.
package config

import (
	"sort"
	"strings"

	"github.com/BuildForge/buildforge/pkg/schema"
)

// Store is the mutable key/value tree of the user's current choices.
// Values are stored as decoded JSON shapes; type conformance is checked
// by the validation engine at read time, not enforced on write, because
// writes come straight from UI widgets.
//
// A Store is owned by a single goroutine (the foreground thread in the
// GUI); it performs no internal locking.
type Store struct {
	registry     *schema.Registry
	values       map[string]any
	unrecognized map[string]bool
	filePath     string
}

// NewStore creates a store seeded with the schema's defaults.
func NewStore(registry *schema.Registry) *Store {
	return &Store{
		registry:     registry,
		values:       registry.Defaults(),
		unrecognized: make(map[string]bool),
	}
}

// Get returns the value at a dotted path, or nil when absent.
func (s *Store) Get(key string) any {
	v, _ := lookupPath(s.values, key)
	return v
}

// GetOr returns the value at key, or fallback when absent.
func (s *Store) GetOr(key string, fallback any) any {
	if v, ok := lookupPath(s.values, key); ok {
		return v
	}
	return fallback
}

// GetString returns the value at key as a string, or "" if it is absent
// or not a string.
func (s *Store) GetString(key string) string {
	v, _ := s.Get(key).(string)
	return v
}

// GetBool returns the value at key as a bool; absent or mistyped values
// read as false.
func (s *Store) GetBool(key string) bool {
	v, _ := s.Get(key).(bool)
	return v
}

// GetStringList returns the value at key as a string slice, dropping
// non-string elements.
func (s *Store) GetStringList(key string) []string {
	items, ok := s.Get(key).([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// Has reports whether a value exists at key.
func (s *Store) Has(key string) bool {
	_, ok := lookupPath(s.values, key)
	return ok
}

// Set writes a value at a dotted path. Keys the schema does not declare
// are accepted but tracked as unrecognized, so callers can surface a
// warning instead of losing data from a newer or older schema version.
func (s *Store) Set(key string, value any) {
	setPath(s.values, key, value)
	if !s.registry.Has(key) {
		s.unrecognized[key] = true
	}
}

// Reset restores one key to its schema default. Resetting an
// unrecognized key removes it. Reset is idempotent.
func (s *Store) Reset(key string) {
	def, err := s.registry.Lookup(key)
	if err != nil {
		deletePath(s.values, key)
		delete(s.unrecognized, key)
		return
	}
	setPath(s.values, key, schema.DefaultFor(def))
}

// ResetAll restores every setting to its schema default and forgets all
// unrecognized keys.
func (s *Store) ResetAll() {
	s.values = s.registry.Defaults()
	s.unrecognized = make(map[string]bool)
	s.filePath = ""
}

// Unrecognized returns the sorted dotted paths present in the store that
// the schema does not declare.
func (s *Store) Unrecognized() []string {
	keys := make([]string, 0, len(s.unrecognized))
	for key := range s.unrecognized {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FilePath returns the path of the last successful save or load, or ""
// when the configuration has never touched disk.
func (s *Store) FilePath() string { return s.filePath }

// ToMap returns a deep copy of the configuration tree, safe to hand to
// background readers as an immutable snapshot.
func (s *Store) ToMap() map[string]any {
	return deepCopyMap(s.values)
}

// FromMap replaces the store's state with the schema defaults merged
// with data: keys present in data win, keys absent keep their defaults,
// and unknown keys are preserved but flagged.
func (s *Store) FromMap(data map[string]any) {
	merged := deepCopyMap(s.registry.Defaults())
	mergeTree(merged, data)
	s.values = merged
	s.unrecognized = make(map[string]bool)
	collectUnknown(s.registry, data, "", s.unrecognized)
}

// lookupPath walks a dotted path through nested maps.
func lookupPath(root map[string]any, key string) (any, bool) {
	var node any = root
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// setPath writes value at a dotted path, creating intermediate maps and
// overwriting non-map intermediates.
func setPath(root map[string]any, key string, value any) {
	node := root
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
}

// deletePath removes the leaf at a dotted path, leaving intermediate
// maps in place.
func deletePath(root map[string]any, key string) {
	node := root
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return
		}
		node = child
	}
	delete(node, parts[len(parts)-1])
}

// mergeTree recursively overlays src onto dst. Maps merge; any other
// value in src replaces the value in dst.
func mergeTree(dst, src map[string]any) {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeTree(dstMap, srcMap)
			continue
		}
		dst[key] = deepCopyValue(value)
	}
}

// collectUnknown records leaf paths in data that the schema does not
// declare. Subtrees rooted at a declared key are never descended into,
// so structured values of declared settings stay untouched.
func collectUnknown(registry *schema.Registry, data map[string]any, prefix string, out map[string]bool) {
	for key, value := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if registry.Has(path) {
			continue
		}
		if child, ok := value.(map[string]any); ok {
			collectUnknown(registry, child, path, out)
			continue
		}
		out[path] = true
	}
}

func deepCopyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = deepCopyValue(value)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return deepCopyMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
