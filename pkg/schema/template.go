package schema

import (
	"fmt"
	"strings"
)

// Placeholder is the substitution marker in flag templates.
const Placeholder = "{value}"

// placeholderCount returns how many substitution markers a template holds.
func placeholderCount(flag string) int {
	return strings.Count(flag, Placeholder)
}

// ExpandTemplate substitutes value into the template's placeholder.
// Templates without a placeholder are returned verbatim.
func ExpandTemplate(flag, value string) string {
	return strings.Replace(flag, Placeholder, value, 1)
}

// validateTemplate checks a definition's flag template against its type.
// Booleans must not substitute a value; value-carrying types must
// substitute exactly one. A template may never hold more than one
// placeholder.
func validateTemplate(def *SettingDefinition) error {
	if def.Positional {
		if def.Flag != "" {
			return fmt.Errorf("setting %s: positional settings take no flag template", def.Key)
		}
		return nil
	}

	if def.Type == TypeEnum {
		// Enums map values to complete flag variants; the variants
		// themselves must not substitute.
		if def.Flag != "" {
			return fmt.Errorf("setting %s: enum settings map values via variants, not a flag template", def.Key)
		}
		for value, variant := range def.Enum.Variants {
			if placeholderCount(variant) != 0 {
				return fmt.Errorf("setting %s: enum variant %q must not contain %s", def.Key, value, Placeholder)
			}
		}
		return nil
	}

	if def.ElseFlag != "" {
		if def.Type != TypeBoolean {
			return fmt.Errorf("setting %s: else_flag is only valid on boolean settings", def.Key)
		}
		if placeholderCount(def.ElseFlag) != 0 {
			return fmt.Errorf("setting %s: else_flag %q must not substitute a value", def.Key, def.ElseFlag)
		}
	}

	if def.Flag == "" {
		// A flagless setting is legal: it only participates in
		// validation, never in command emission.
		return nil
	}

	n := placeholderCount(def.Flag)
	if n > 1 {
		return fmt.Errorf("setting %s: flag template %q has %d placeholders, at most one allowed", def.Key, def.Flag, n)
	}

	if def.Type == TypeBoolean {
		if n != 0 {
			return fmt.Errorf("setting %s: boolean flag template %q must not substitute a value", def.Key, def.Flag)
		}
		return nil
	}

	if n != 1 {
		return fmt.Errorf("setting %s: flag template %q must substitute exactly one value", def.Key, def.Flag)
	}
	return nil
}
