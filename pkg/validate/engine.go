package validate

import (
	"os/exec"
	"strings"

	"github.com/BuildForge/buildforge/pkg/schema"
)

// Engine evaluates every setting's rules against a configuration
// snapshot. Rules are compiled once at construction; evaluation itself
// is pure and safe to call repeatedly.
type Engine struct {
	registry *schema.Registry
	fields   []*fieldRules
	byKey    map[string]*fieldRules
}

type fieldRules struct {
	def   *schema.SettingDefinition
	rules []*boundRule
}

// Option configures engine construction.
type Option func(*options)

type options struct {
	lookPath func(string) (string, error)
}

// WithLookPath overrides how the tool-available rule locates
// executables. Used by tests to avoid depending on the host PATH.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(o *options) { o.lookPath = lookPath }
}

// NewEngine compiles all rules declared in the schema. A compile failure
// here means a malformed condition the loader could not catch; it is
// startup-fatal like any other schema defect.
func NewEngine(registry *schema.Registry, opts ...Option) (*Engine, error) {
	o := &options{lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(o)
	}

	engine := &Engine{
		registry: registry,
		byKey:    make(map[string]*fieldRules),
	}

	for _, def := range registry.Definitions() {
		field := &fieldRules{def: def}
		for _, spec := range def.Rules {
			bound, err := bindRule(def, spec, o.lookPath)
			if err != nil {
				return nil, err
			}
			field.rules = append(field.rules, bound)
		}
		engine.fields = append(engine.fields, field)
		engine.byKey[def.Key] = field
	}

	return engine, nil
}

// ValidateField checks one setting against its rules. The declared type
// is checked first (a mismatch is an error result, not a crash), then
// the schema's rules run in declaration order; the first error
// short-circuits the remaining rules for this field to avoid stacking
// redundant messages.
func (e *Engine) ValidateField(key string, cfg map[string]any) Results {
	field, ok := e.byKey[key]
	if !ok {
		return Results{{
			Field:    key,
			Rule:     "known-setting",
			Severity: SeverityWarning,
			Message:  "setting is not declared in the schema",
		}}
	}
	return e.validateField(field, cfg)
}

// ValidateAll checks every setting in schema order and concatenates the
// per-field results. A failure in one field never prevents checking the
// others.
func (e *Engine) ValidateAll(cfg map[string]any) Results {
	var out Results
	for _, field := range e.fields {
		out = append(out, e.validateField(field, cfg)...)
	}
	return out
}

func (e *Engine) validateField(field *fieldRules, cfg map[string]any) Results {
	value := lookupPath(cfg, field.def.Key)

	if result := typeCheck(field.def, value); result != nil {
		return Results{*result}
	}

	var out Results
	for _, rule := range field.rules {
		result := rule.run(field.def, value, cfg)
		if result == nil {
			continue
		}
		out = append(out, *result)
		if result.Severity == SeverityError {
			break
		}
	}
	return out
}

// typeCheck verifies the stored value's kind against the declared
// setting type. Absent values are fine (the required rule owns that
// case); mismatches surface as error results.
func typeCheck(def *schema.SettingDefinition, value any) *Result {
	if value == nil {
		return nil
	}

	mismatch := func(expected string) *Result {
		return &Result{
			Field:    def.Key,
			Rule:     "type",
			Severity: SeverityError,
			Message:  "expected " + expected + " value",
		}
	}

	switch def.Type {
	case schema.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return mismatch("boolean")
		}
	case schema.TypeInteger:
		switch typed := value.(type) {
		case int:
		case float64:
			if typed != float64(int(typed)) {
				return mismatch("integer")
			}
		default:
			return mismatch("integer")
		}
	case schema.TypeStringList:
		items, ok := value.([]any)
		if !ok {
			return mismatch("list")
		}
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return mismatch("list of strings")
			}
		}
	case schema.TypeEnum:
		if _, ok := value.(string); !ok {
			return mismatch("string")
		}
	default:
		if _, ok := value.(string); !ok {
			return mismatch("string")
		}
	}

	return nil
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
