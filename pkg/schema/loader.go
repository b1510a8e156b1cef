package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed embedded/settings.json
var embeddedFS embed.FS

// embeddedPath is the schema shipped inside the binary.
const embeddedPath = "embedded/settings.json"

// recognized rule identifiers, checked at load time so a typo in the
// schema fails fast instead of silently skipping a rule.
var knownRules = map[string]bool{
	"required":          true,
	"file-exists":       true,
	"dir-exists":        true,
	"extension-allowed": true,
	"tool-available":    true,
	"pattern":           true,
}

var knownSeverities = map[string]bool{
	"":        true,
	"error":   true,
	"warning": true,
	"info":    true,
}

// Load reads a schema source from disk and returns a fully validated
// registry. The format is chosen by extension: .yaml/.yml parse as YAML,
// anything else as JSON. Load never returns a partially built registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Kind: LoadErrorUnreadable, Source: path, Err: err}
	}
	return Parse(data, path)
}

// LoadEmbedded returns the registry built from the schema compiled into
// the binary.
func LoadEmbedded() (*Registry, error) {
	data, err := embeddedFS.ReadFile(embeddedPath)
	if err != nil {
		return nil, &LoadError{Kind: LoadErrorUnreadable, Source: "embedded", Err: err}
	}
	return Parse(data, embeddedPath)
}

// Parse decodes and structurally validates raw schema bytes. The source
// string only labels errors.
func Parse(data []byte, source string) (*Registry, error) {
	var doc Document

	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Kind: LoadErrorMalformed, Source: source, Err: err}
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Kind: LoadErrorMalformed, Source: source, Err: err}
		}
	}

	if err := validateDocument(&doc); err != nil {
		return nil, &LoadError{Kind: LoadErrorMalformed, Source: source, Err: err}
	}

	return newRegistry(&doc), nil
}

// validateDocument performs the structural checks that make every later
// stage safe: unique keys, recognized types and tiers, well-formed flag
// templates, coherent enum specs, sane integer bounds, known rules.
func validateDocument(doc *Document) error {
	if len(doc.Tool.Command) == 0 {
		return fmt.Errorf("tool command is required")
	}

	seen := make(map[string]bool)
	positionals := 0

	for ti := range doc.Tabs {
		tab := &doc.Tabs[ti]
		if tab.ID == "" {
			return fmt.Errorf("tab %d: id is required", ti)
		}
		for si := range tab.Sections {
			section := &tab.Sections[si]
			for di := range section.Settings {
				def := &section.Settings[di]
				if err := validateDefinition(def, seen); err != nil {
					return err
				}
				if def.Positional {
					positionals++
				}
			}
		}
	}

	if positionals > 1 {
		return fmt.Errorf("schema declares %d positional settings, at most one allowed", positionals)
	}

	return nil
}

func validateDefinition(def *SettingDefinition, seen map[string]bool) error {
	if def.Key == "" {
		return fmt.Errorf("setting with empty key")
	}
	if seen[def.Key] {
		return fmt.Errorf("duplicate setting key: %s", def.Key)
	}
	seen[def.Key] = true

	if !def.Type.Valid() {
		return fmt.Errorf("setting %s: unrecognized type %q", def.Key, def.Type)
	}

	if def.Risk == "" {
		def.Risk = RiskSafe
	}
	if !def.Risk.Valid() {
		return fmt.Errorf("setting %s: unrecognized risk tier %q", def.Key, def.Risk)
	}

	if def.Type == TypeEnum {
		if def.Enum == nil || len(def.Enum.Values) == 0 {
			return fmt.Errorf("setting %s: enum settings require an enum value set", def.Key)
		}
		for _, v := range def.Enum.Values {
			_, mapped := def.Enum.Variants[v]
			if !mapped && !def.Enum.Omitted(v) {
				return fmt.Errorf("setting %s: enum value %q has no variant and is not omitted", def.Key, v)
			}
		}
	} else if def.Enum != nil {
		return fmt.Errorf("setting %s: enum spec on non-enum type %q", def.Key, def.Type)
	}

	if def.Min != nil && def.Max != nil && *def.Min > *def.Max {
		return fmt.Errorf("setting %s: min %d exceeds max %d", def.Key, *def.Min, *def.Max)
	}

	if err := validateTemplate(def); err != nil {
		return err
	}

	if def.Default != nil {
		if err := validateDefault(def); err != nil {
			return err
		}
	}

	for i, rule := range def.Rules {
		if !knownRules[rule.Rule] {
			return fmt.Errorf("setting %s: rule %d: unrecognized rule %q", def.Key, i, rule.Rule)
		}
		if !knownSeverities[rule.Severity] {
			return fmt.Errorf("setting %s: rule %q: unrecognized severity %q", def.Key, rule.Rule, rule.Severity)
		}
		if rule.Rule == "extension-allowed" && len(rule.Extensions) == 0 {
			return fmt.Errorf("setting %s: extension-allowed rule requires extensions", def.Key)
		}
		if rule.Rule == "tool-available" && rule.Tool == "" {
			return fmt.Errorf("setting %s: tool-available rule requires a tool name", def.Key)
		}
		if rule.Rule == "pattern" {
			if rule.Pattern == "" {
				return fmt.Errorf("setting %s: pattern rule requires a pattern", def.Key)
			}
			if _, err := regexp.Compile(rule.Pattern); err != nil {
				return fmt.Errorf("setting %s: pattern rule: %w", def.Key, err)
			}
		}
	}

	return nil
}

// validateDefault rejects defaults that contradict the declared type.
func validateDefault(def *SettingDefinition) error {
	switch def.Type {
	case TypeBoolean:
		if _, ok := def.Default.(bool); !ok {
			return fmt.Errorf("setting %s: boolean default must be true or false", def.Key)
		}
	case TypeInteger:
		switch def.Default.(type) {
		case int, float64:
		default:
			return fmt.Errorf("setting %s: integer default must be a number", def.Key)
		}
	case TypeStringList:
		if _, ok := def.Default.([]any); !ok {
			return fmt.Errorf("setting %s: list default must be an array", def.Key)
		}
	case TypeEnum:
		s, ok := def.Default.(string)
		if !ok || !def.Enum.Contains(s) {
			return fmt.Errorf("setting %s: enum default %v not in value set", def.Key, def.Default)
		}
	default:
		if _, ok := def.Default.(string); !ok {
			return fmt.Errorf("setting %s: default must be a string", def.Key)
		}
	}
	return nil
}

// splitPath splits a dotted setting key into its path segments.
func splitPath(key string) []string {
	return strings.Split(key, ".")
}
