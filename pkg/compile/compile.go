package compile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BuildForge/buildforge/pkg/schema"
)

// Compile walks the schema's definitions in their canonical order and
// emits one atom per active setting. The configuration snapshot is read
// only; compilation never validates filesystem state and never executes
// anything, so it is safe to call repeatedly and concurrently.
func Compile(registry *schema.Registry, cfg map[string]any) (*Plan, error) {
	plan := &Plan{Tool: registry.Tool()}

	for _, def := range registry.Definitions() {
		value := lookupPath(cfg, def.Key)

		if def.Positional {
			if s, ok := value.(string); ok {
				plan.EntryScript = s
			}
			continue
		}

		atoms, err := emit(def, value)
		if err != nil {
			return nil, err
		}
		plan.Atoms = append(plan.Atoms, atoms...)
	}

	// Group rank first, atom id second: the same ordering regardless of
	// how the configuration tree happened to be built.
	sort.SliceStable(plan.Atoms, func(i, j int) bool {
		a, b := plan.Atoms[i], plan.Atoms[j]
		ra, rb := groupRank(a.Group), groupRank(b.Group)
		if ra != rb {
			return ra < rb
		}
		return a.ID < b.ID
	})

	return plan, nil
}

// emit applies the per-type emission policy to one definition.
func emit(def *schema.SettingDefinition, value any) ([]Atom, error) {
	switch def.Type {
	case schema.TypeBoolean:
		return emitBoolean(def, value), nil
	case schema.TypeEnum:
		return emitEnum(def, value)
	case schema.TypeStringList:
		return emitList(def, value), nil
	case schema.TypeInteger:
		return emitInteger(def, value)
	default:
		return emitString(def, value), nil
	}
}

// emitBoolean emits the flag verbatim iff the value is exactly true, and
// the else flag (when declared) iff it is exactly false. A false or
// absent value never emits the primary flag.
func emitBoolean(def *schema.SettingDefinition, value any) []Atom {
	b, ok := value.(bool)
	if !ok {
		return nil
	}
	if b && def.Flag != "" {
		return []Atom{newAtom(def, def.Flag, def.Flag)}
	}
	if !b && def.ElseFlag != "" {
		return []Atom{newAtom(def, def.ElseFlag, def.ElseFlag)}
	}
	return nil
}

func emitString(def *schema.SettingDefinition, value any) []Atom {
	s, ok := value.(string)
	if !ok || s == "" || def.Flag == "" {
		return nil
	}
	if omitted(def.OmitIf, s) {
		return nil
	}
	return []Atom{newAtom(def, def.Flag, schema.ExpandTemplate(def.Flag, s))}
}

// emitEnum maps the selected value to its flag variant. A value outside
// the schema's set fails the compile: it indicates stale configuration
// state that must surface rather than be skipped.
func emitEnum(def *schema.SettingDefinition, value any) ([]Atom, error) {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil, nil
	}
	if !def.Enum.Contains(s) {
		return nil, &InvalidValueError{Key: def.Key, Value: s, Reason: "not in enum value set"}
	}
	if def.Enum.Omitted(s) {
		return nil, nil
	}
	variant := def.Enum.Variants[s]
	return []Atom{newAtom(def, def.Key+"="+s, variant)}, nil
}

// emitList emits the flag once per element in list order, or a single
// comma-joined flag when the definition asks for joining.
func emitList(def *schema.SettingDefinition, value any) []Atom {
	items, ok := value.([]any)
	if !ok || len(items) == 0 || def.Flag == "" {
		return nil
	}

	var elements []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			elements = append(elements, s)
		}
	}
	if len(elements) == 0 {
		return nil
	}

	if def.Join {
		joined := strings.Join(elements, ",")
		return []Atom{newAtom(def, def.Key, schema.ExpandTemplate(def.Flag, joined))}
	}

	atoms := make([]Atom, 0, len(elements))
	for _, element := range elements {
		atom := newAtom(def, def.Key+":"+element, schema.ExpandTemplate(def.Flag, element))
		atoms = append(atoms, atom)
	}
	return atoms
}

// emitInteger substitutes the numeric value after bounds checking;
// out-of-bound values fail the compile rather than being clamped.
func emitInteger(def *schema.SettingDefinition, value any) ([]Atom, error) {
	var n int
	switch typed := value.(type) {
	case int:
		n = typed
	case float64:
		if typed != float64(int(typed)) {
			return nil, &InvalidValueError{Key: def.Key, Value: typed, Reason: "not an integer"}
		}
		n = int(typed)
	default:
		return nil, nil
	}

	if omitted(def.OmitIf, n) {
		return nil, nil
	}
	if def.Min != nil && n < *def.Min {
		return nil, &InvalidValueError{Key: def.Key, Value: n, Reason: fmt.Sprintf("below minimum %d", *def.Min)}
	}
	if def.Max != nil && n > *def.Max {
		return nil, &InvalidValueError{Key: def.Key, Value: n, Reason: fmt.Sprintf("above maximum %d", *def.Max)}
	}
	if def.Flag == "" {
		return nil, nil
	}
	return []Atom{newAtom(def, def.Key, schema.ExpandTemplate(def.Flag, strconv.Itoa(n)))}, nil
}

func newAtom(def *schema.SettingDefinition, id, arg string) Atom {
	group := def.Group
	if group == "" {
		group = "misc"
	}
	return Atom{
		ID:      id,
		Args:    []string{arg},
		Sources: []string{def.Key},
		Group:   group,
	}
}

// omitted reports whether the value is in the definition's omit set.
// Numeric omit entries decoded from JSON arrive as float64.
func omitted(omitIf []any, value any) bool {
	for _, candidate := range omitIf {
		if candidate == value {
			return true
		}
		if f, ok := candidate.(float64); ok {
			if n, ok := value.(int); ok && int(f) == n {
				return true
			}
		}
	}
	return false
}

// lookupPath walks a dotted path through the configuration tree.
func lookupPath(cfg map[string]any, key string) any {
	var node any = cfg
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = m[part]
		if !ok {
			return nil
		}
	}
	return node
}
