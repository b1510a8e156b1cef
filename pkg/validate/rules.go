package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BuildForge/buildforge/pkg/schema"
)

// checkFunc runs one rule against a value. It returns nil when the rule
// passes. Filesystem checks are best-effort at time of check: the state
// may change between validation and execution, and spawn-time failures
// are reported separately by the runner.
type checkFunc func(def *schema.SettingDefinition, value any) *Result

// boundRule is a rule spec compiled against its definition: severity
// resolved, pattern and condition precompiled.
type boundRule struct {
	spec     schema.RuleSpec
	severity Severity
	when     *condition
	check    checkFunc
}

// defaultSeverity returns the severity a rule kind carries unless the
// schema overrides it. Directory checks default to warning because
// output directories are commonly created at build time; a missing
// optional tool must not block the whole workflow either.
func defaultSeverity(rule string) Severity {
	switch rule {
	case "dir-exists", "tool-available":
		return SeverityWarning
	default:
		return SeverityError
	}
}

// bindRule compiles one rule spec into an executable check.
func bindRule(def *schema.SettingDefinition, spec schema.RuleSpec, lookPath func(string) (string, error)) (*boundRule, error) {
	bound := &boundRule{
		spec:     spec,
		severity: defaultSeverity(spec.Rule),
	}
	if spec.Severity != "" {
		bound.severity = Severity(spec.Severity)
	}

	when, err := compileCondition(spec.When)
	if err != nil {
		return nil, fmt.Errorf("setting %s: rule %s: %w", def.Key, spec.Rule, err)
	}
	bound.when = when

	switch spec.Rule {
	case "required":
		bound.check = checkRequired
	case "file-exists":
		bound.check = checkFileExists
	case "dir-exists":
		bound.check = checkDirExists
	case "extension-allowed":
		bound.check = checkExtension(spec.Extensions)
	case "tool-available":
		bound.check = checkToolAvailable(spec.Tool, lookPath)
	case "pattern":
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("setting %s: pattern rule: %w", def.Key, err)
		}
		bound.check = checkPattern(re)
	default:
		return nil, fmt.Errorf("setting %s: unrecognized rule %q", def.Key, spec.Rule)
	}

	return bound, nil
}

// run evaluates the bound rule, applying the when condition and the
// schema's message/suggestion overrides.
func (b *boundRule) run(def *schema.SettingDefinition, value any, cfg map[string]any) *Result {
	if !b.when.met(cfg) {
		return nil
	}

	result := b.check(def, value)
	if result == nil {
		return nil
	}

	result.Field = def.Key
	result.Rule = b.spec.Rule
	result.Severity = b.severity
	if b.spec.Message != "" {
		result.Message = b.spec.Message
	}
	if b.spec.Suggestion != "" {
		result.Suggestion = b.spec.Suggestion
	}
	return result
}

// isEmpty reports whether a value counts as absent for the required
// rule. Integers are never empty: zero is a legitimate choice.
func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case bool:
		return !typed
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	default:
		return false
	}
}

func checkRequired(def *schema.SettingDefinition, value any) *Result {
	if isEmpty(value) {
		return &Result{Message: fmt.Sprintf("%s is required", fieldLabel(def))}
	}
	return nil
}

func checkFileExists(def *schema.SettingDefinition, value any) *Result {
	path, _ := value.(string)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return &Result{Message: fmt.Sprintf("file does not exist: %s", path)}
	}
	if info.IsDir() {
		return &Result{Message: fmt.Sprintf("path is not a file: %s", path)}
	}
	return nil
}

func checkDirExists(def *schema.SettingDefinition, value any) *Result {
	path, _ := value.(string)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return &Result{Message: fmt.Sprintf("directory does not exist: %s", path)}
	}
	if !info.IsDir() {
		return &Result{Message: fmt.Sprintf("path is not a directory: %s", path)}
	}
	return nil
}

func checkExtension(allowed []string) checkFunc {
	normalized := make([]string, len(allowed))
	for i, ext := range allowed {
		normalized[i] = strings.ToLower(ext)
	}
	return func(def *schema.SettingDefinition, value any) *Result {
		path, _ := value.(string)
		if path == "" {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, candidate := range normalized {
			if ext == candidate {
				return nil
			}
		}
		return &Result{Message: fmt.Sprintf("%s must have one of the extensions %s", fieldLabel(def), strings.Join(normalized, ", "))}
	}
}

func checkToolAvailable(tool string, lookPath func(string) (string, error)) checkFunc {
	return func(def *schema.SettingDefinition, value any) *Result {
		if _, err := lookPath(tool); err != nil {
			return &Result{Message: fmt.Sprintf("%s not found on PATH", tool)}
		}
		return nil
	}
}

// checkPattern matches strings against a regular expression; for list
// settings every element is checked and the first mismatch reported.
func checkPattern(re *regexp.Regexp) checkFunc {
	return func(def *schema.SettingDefinition, value any) *Result {
		switch typed := value.(type) {
		case string:
			if typed == "" || re.MatchString(typed) {
				return nil
			}
			return &Result{Message: fmt.Sprintf("%q does not match the expected format", typed)}
		case []any:
			for _, item := range typed {
				str, ok := item.(string)
				if !ok {
					continue
				}
				if str != "" && !re.MatchString(str) {
					return &Result{Message: fmt.Sprintf("%q does not match the expected format", str)}
				}
			}
			return nil
		default:
			return nil
		}
	}
}

func fieldLabel(def *schema.SettingDefinition) string {
	if def.Label != "" {
		return def.Label
	}
	return def.Key
}
