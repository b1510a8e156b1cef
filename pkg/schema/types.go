// Package schema loads and indexes the declarative setting catalogue that
// drives form rendering, validation, and command compilation.
package schema

// ValueType identifies the kind of value a setting holds.
type ValueType string

// Supported setting value types.
const (
	TypeBoolean       ValueType = "boolean"
	TypeString        ValueType = "string"
	TypePathFile      ValueType = "path-file"
	TypePathDirectory ValueType = "path-directory"
	TypeEnum          ValueType = "enum"
	TypeStringList    ValueType = "string-list"
	TypeInteger       ValueType = "integer"
)

// Valid reports whether t is one of the recognized value types.
func (t ValueType) Valid() bool {
	switch t {
	case TypeBoolean, TypeString, TypePathFile, TypePathDirectory, TypeEnum, TypeStringList, TypeInteger:
		return true
	}
	return false
}

// TakesValue reports whether the type substitutes a value into its flag
// template. Booleans emit their flag verbatim and never carry a value.
func (t ValueType) TakesValue() bool {
	return t != TypeBoolean
}

// RiskTier categorizes a setting for progressive disclosure in the UI.
// It never affects validation severity.
type RiskTier string

// Recognized risk tiers, from least to most dangerous.
const (
	RiskSafe    RiskTier = "safe"
	RiskCaution RiskTier = "caution"
	RiskRisky   RiskTier = "risky"
	RiskExpert  RiskTier = "expert"
)

// Valid reports whether r is a recognized risk tier.
func (r RiskTier) Valid() bool {
	switch r {
	case RiskSafe, RiskCaution, RiskRisky, RiskExpert:
		return true
	}
	return false
}

// RuleSpec declares one validation rule attached to a setting. Rules are
// evaluated in declaration order by the validation engine.
type RuleSpec struct {
	// Rule names the check: required, file-exists, dir-exists,
	// extension-allowed, tool-available, pattern.
	Rule string `json:"rule" yaml:"rule"`

	// Severity overrides the rule's default severity (error, warning, info).
	Severity string `json:"severity,omitempty" yaml:"severity,omitempty"`

	// Extensions is the allowed extension set for extension-allowed.
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// Tool is the executable name probed by tool-available.
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`

	// Pattern is the regular expression checked by the pattern rule.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Message replaces the rule's default failure message.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Suggestion is surfaced alongside a failure to help the user fix it.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`

	// When is an optional expression over the full configuration; the rule
	// only runs when it evaluates to true.
	When string `json:"when,omitempty" yaml:"when,omitempty"`
}

// EnumSpec describes the value set and flag mapping of an enum setting.
type EnumSpec struct {
	// Values is the complete set of allowed enum values.
	Values []string `json:"values" yaml:"values"`

	// Variants maps a value to the flag it emits. Values listed in Omit
	// need no variant.
	Variants map[string]string `json:"variants,omitempty" yaml:"variants,omitempty"`

	// Omit lists values that emit nothing (typically "auto" defaults).
	Omit []string `json:"omit,omitempty" yaml:"omit,omitempty"`
}

// Contains reports whether v is an allowed enum value.
func (e *EnumSpec) Contains(v string) bool {
	for _, candidate := range e.Values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Omitted reports whether v is configured to emit no flag.
func (e *EnumSpec) Omitted(v string) bool {
	for _, candidate := range e.Omit {
		if candidate == v {
			return true
		}
	}
	return false
}

// SettingDefinition is one entry in the schema: a single configurable
// option together with its CLI mapping and validation rules. Definitions
// are immutable once loaded.
type SettingDefinition struct {
	// Key is the unique dotted path identifying the setting (for example
	// "basic.input_file").
	Key string `json:"key" yaml:"key"`

	// Label and Description feed form rendering.
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Type declares the value kind stored under Key.
	Type ValueType `json:"type" yaml:"type"`

	// Flag is the argument template emitted when the setting is active.
	// Value-carrying types substitute the {value} placeholder.
	Flag string `json:"flag,omitempty" yaml:"flag,omitempty"`

	// ElseFlag, for booleans only, is emitted when the value is exactly
	// false. Most booleans leave it empty and emit nothing when false.
	ElseFlag string `json:"else_flag,omitempty" yaml:"else_flag,omitempty"`

	// Default is the type-appropriate initial value.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`

	// Risk drives progressive disclosure.
	Risk RiskTier `json:"risk,omitempty" yaml:"risk,omitempty"`

	// Group orders the emitted flag among the plan's flag groups.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`

	// Positional marks the single entry-script setting that becomes the
	// trailing positional argument instead of a flag.
	Positional bool `json:"positional,omitempty" yaml:"positional,omitempty"`

	// Join, for string lists, emits one flag with comma-joined elements
	// instead of one flag per element.
	Join bool `json:"join,omitempty" yaml:"join,omitempty"`

	// Enum describes allowed values and variants for enum settings.
	Enum *EnumSpec `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Min and Max bound integer settings; out-of-range values fail the
	// compile rather than being clamped.
	Min *int `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int `json:"max,omitempty" yaml:"max,omitempty"`

	// OmitIf lists values that suppress emission for string and integer
	// settings (for example a sentinel "auto" or 0).
	OmitIf []any `json:"omit_if,omitempty" yaml:"omit_if,omitempty"`

	// Rules are evaluated in order by the validation engine.
	Rules []RuleSpec `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Placement within the schema's tab/section structure, filled in by
	// the loader.
	TabID        string `json:"-" yaml:"-"`
	SectionID    string `json:"-" yaml:"-"`
	SectionTitle string `json:"-" yaml:"-"`
}

// Tool describes the target executable the compiled command invokes.
type Tool struct {
	// Name identifies the tool for availability probes.
	Name string `json:"name" yaml:"name"`

	// Command is the argv prefix, for example ["python", "-m", "nuitka"].
	Command []string `json:"command" yaml:"command"`
}

// Tab is a top-level grouping of settings for form rendering.
type Tab struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section is a titled group of settings within a tab.
type Section struct {
	ID       string              `json:"id" yaml:"id"`
	Title    string              `json:"title" yaml:"title"`
	Settings []SettingDefinition `json:"settings" yaml:"settings"`
}

// Document is the on-disk shape of a schema source.
type Document struct {
	Tool Tool  `json:"tool" yaml:"tool"`
	Tabs []Tab `json:"tabs" yaml:"tabs"`
}
