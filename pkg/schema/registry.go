package schema

// Registry is an immutable, ordered catalogue of setting definitions.
// The declaration order of the source document is the canonical ordering
// used for both form rendering and deterministic command emission.
type Registry struct {
	tool  Tool
	tabs  []Tab
	defs  []*SettingDefinition
	byKey map[string]*SettingDefinition
	byTab map[string][]*SettingDefinition
}

// newRegistry indexes an already-validated document.
func newRegistry(doc *Document) *Registry {
	r := &Registry{
		tool:  doc.Tool,
		tabs:  doc.Tabs,
		byKey: make(map[string]*SettingDefinition),
		byTab: make(map[string][]*SettingDefinition),
	}

	for ti := range doc.Tabs {
		tab := &doc.Tabs[ti]
		for si := range tab.Sections {
			section := &tab.Sections[si]
			for di := range section.Settings {
				def := &section.Settings[di]
				def.TabID = tab.ID
				def.SectionID = section.ID
				def.SectionTitle = section.Title
				r.defs = append(r.defs, def)
				r.byKey[def.Key] = def
				r.byTab[tab.ID] = append(r.byTab[tab.ID], def)
			}
		}
	}

	return r
}

// Tool returns the target tool descriptor.
func (r *Registry) Tool() Tool { return r.tool }

// Tabs returns the tab structure for form rendering.
func (r *Registry) Tabs() []Tab { return r.tabs }

// Len returns the number of setting definitions.
func (r *Registry) Len() int { return len(r.defs) }

// Definitions returns all definitions in canonical schema order.
func (r *Registry) Definitions() []*SettingDefinition {
	out := make([]*SettingDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup returns the definition for key, or an UnknownKeyError.
func (r *Registry) Lookup(key string) (*SettingDefinition, error) {
	def, ok := r.byKey[key]
	if !ok {
		return nil, &UnknownKeyError{Key: key}
	}
	return def, nil
}

// Has reports whether key is declared in the schema.
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// TabSettings returns the definitions of one tab in schema order.
func (r *Registry) TabSettings(tabID string) []*SettingDefinition {
	defs := r.byTab[tabID]
	out := make([]*SettingDefinition, len(defs))
	copy(out, defs)
	return out
}

// ByRisk returns the definitions of one risk tier in schema order.
func (r *Registry) ByRisk(tier RiskTier) []*SettingDefinition {
	var out []*SettingDefinition
	for _, def := range r.defs {
		if def.Risk == tier {
			out = append(out, def)
		}
	}
	return out
}

// Positional returns the definition marked as the positional entry
// argument, or nil if the schema declares none.
func (r *Registry) Positional() *SettingDefinition {
	for _, def := range r.defs {
		if def.Positional {
			return def
		}
	}
	return nil
}

// Defaults returns a nested map of every setting's default value, keyed
// by the schema's dotted-path namespaces. It is the seed state for a
// fresh configuration store.
func (r *Registry) Defaults() map[string]any {
	root := make(map[string]any)
	for _, def := range r.defs {
		setPath(root, def.Key, DefaultFor(def))
	}
	return root
}

// DefaultFor returns a definition's default, normalized to its declared
// type, substituting the type's zero value when the schema declares none.
func DefaultFor(def *SettingDefinition) any {
	if def.Default != nil {
		return normalizeValue(def.Type, def.Default)
	}
	switch def.Type {
	case TypeBoolean:
		return false
	case TypeStringList:
		return []any{}
	case TypeInteger:
		return 0
	default:
		return ""
	}
}

// normalizeValue coerces decoded JSON/YAML values to canonical Go shapes.
func normalizeValue(t ValueType, v any) any {
	switch t {
	case TypeInteger:
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	case TypeStringList:
		if items, ok := v.([]any); ok {
			return items
		}
	}
	return v
}

// setPath writes value at a dotted path, creating intermediate maps.
func setPath(root map[string]any, path string, value any) {
	node := root
	parts := splitPath(path)
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
