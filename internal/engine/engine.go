// Package engine wires the schema registry, configuration store,
// validation engine, command compiler, and process runner into one
// facade the CLI (and an eventual GUI) drives.
package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/BuildForge/buildforge/pkg/compile"
	"github.com/BuildForge/buildforge/pkg/config"
	"github.com/BuildForge/buildforge/pkg/platform"
	"github.com/BuildForge/buildforge/pkg/preset"
	"github.com/BuildForge/buildforge/pkg/runner"
	"github.com/BuildForge/buildforge/pkg/schema"
	"github.com/BuildForge/buildforge/pkg/state"
	"github.com/BuildForge/buildforge/pkg/validate"
)

// AppName is the directory name used for per-user config and state.
const AppName = "buildforge"

const envPrefix = "BUILDFORGE"

// Settings selects how an Engine is assembled. The zero value means:
// embedded schema, schema-declared tool command, default grace period.
type Settings struct {
	// SchemaPath points at an external schema file; empty uses the
	// embedded catalogue.
	SchemaPath string

	// ToolCommand overrides the schema's tool invocation, e.g. a
	// specific Python interpreter.
	ToolCommand []string

	// GracePeriod is how long Stop waits before killing the child.
	GracePeriod time.Duration
}

// SettingsFromEnv reads overrides from BUILDFORGE_* environment
// variables: BUILDFORGE_SCHEMA, BUILDFORGE_TOOL (whitespace-separated
// argv), and BUILDFORGE_GRACE_PERIOD (a Go duration).
func SettingsFromEnv() Settings {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	var s Settings
	s.SchemaPath = v.GetString("schema")
	if tool := v.GetString("tool"); tool != "" {
		s.ToolCommand = strings.Fields(tool)
	}
	if grace := v.GetString("grace_period"); grace != "" {
		if d, err := time.ParseDuration(grace); err == nil {
			s.GracePeriod = d
		}
	}
	return s
}

// Engine is the orchestration facade: one registry, one store, one
// validator, one runner.
type Engine struct {
	registry  *schema.Registry
	store     *config.Store
	validator *validate.Engine
	runner    *runner.Runner
	detector  *platform.Detector
	recent    *state.Recent

	toolCommand []string
}

// New assembles an engine from the given settings. Schema problems and
// unknown rules in the catalogue are startup failures.
func New(settings Settings) (*Engine, error) {
	var registry *schema.Registry
	var err error
	if settings.SchemaPath != "" {
		registry, err = schema.Load(settings.SchemaPath)
	} else {
		registry, err = schema.LoadEmbedded()
	}
	if err != nil {
		return nil, err
	}

	validator, err := validate.NewEngine(registry)
	if err != nil {
		return nil, err
	}

	return &Engine{
		registry:    registry,
		store:       config.NewStore(registry),
		validator:   validator,
		runner:      runner.New(settings.GracePeriod),
		detector:    platform.NewDetector(),
		recent:      state.Open(AppName),
		toolCommand: settings.ToolCommand,
	}, nil
}

// Registry exposes the loaded schema.
func (e *Engine) Registry() *schema.Registry { return e.registry }

// Store exposes the live configuration.
func (e *Engine) Store() *config.Store { return e.store }

// Detector exposes host environment probing.
func (e *Engine) Detector() *platform.Detector { return e.detector }

// Recent exposes the most-recently-used lists.
func (e *Engine) Recent() *state.Recent { return e.recent }

// ToolCommand returns the argv prefix builds run with: the override if
// one was configured, the schema's tool command otherwise.
func (e *Engine) ToolCommand() []string {
	if len(e.toolCommand) > 0 {
		return e.toolCommand
	}
	return e.registry.Tool().Command
}

// ValidateField checks one setting against the current configuration.
func (e *Engine) ValidateField(key string) validate.Results {
	return e.validator.ValidateField(key, e.store.ToMap())
}

// ValidateAll checks every setting, plus a warning per key present in
// the configuration that the schema does not declare.
func (e *Engine) ValidateAll() validate.Results {
	results := e.validator.ValidateAll(e.store.ToMap())
	for _, key := range e.store.Unrecognized() {
		results = append(results, validate.Result{
			Field:    key,
			Rule:     "unknown-key",
			Severity: validate.SeverityWarning,
			Message:  fmt.Sprintf("%s is not declared in the schema", key),
		})
	}
	return results
}

// CompilePlan turns the current configuration into a command plan,
// applying the tool override if one is set.
func (e *Engine) CompilePlan() (*compile.Plan, error) {
	plan, err := compile.Compile(e.registry, e.store.ToMap())
	if err != nil {
		return nil, err
	}
	if len(e.toolCommand) > 0 {
		plan.Tool.Command = append([]string(nil), e.toolCommand...)
	}
	return plan, nil
}

// CommandLine compiles and renders the full argv.
func (e *Engine) CommandLine() ([]string, error) {
	plan, err := e.CompilePlan()
	if err != nil {
		return nil, err
	}
	return plan.Render(), nil
}

// ValidationFailedError is returned by StartBuild when error-severity
// findings block execution. Warnings never block.
type ValidationFailedError struct {
	Results validate.Results
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("configuration has %d validation error(s)", len(e.Results.Errors()))
}

// StartBuild validates, compiles, and launches the build. Error-severity
// findings abort before anything is spawned; warnings are reported by
// the caller but do not gate execution.
func (e *Engine) StartBuild(cb runner.Callbacks) (*runner.Handle, error) {
	results := e.ValidateAll()
	if results.HasErrors() {
		return nil, &ValidationFailedError{Results: results}
	}

	plan, err := e.CompilePlan()
	if err != nil {
		return nil, err
	}

	handle, err := e.runner.Start(plan.Render(), cb)
	if err != nil {
		return nil, err
	}

	if plan.EntryScript != "" {
		e.recent.Add(state.ListScripts, plan.EntryScript)
		_ = e.recent.Save()
	}
	return handle, nil
}

// StopBuild requests cancellation of the active build, if any.
func (e *Engine) StopBuild() { e.runner.Stop() }

// Running reports whether a build is currently active.
func (e *Engine) Running() bool { return e.runner.Running() }

// DefaultConfigPath is where SaveConfig writes when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.json")
}

// SaveConfig persists the configuration to path (or the default
// location when path is empty) and remembers it in the recent list.
func (e *Engine) SaveConfig(path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := e.store.Save(path); err != nil {
		return err
	}
	e.recent.Add(state.ListConfigs, path)
	_ = e.recent.Save()
	return nil
}

// LoadConfig merges a saved configuration over the schema defaults and
// remembers the file in the recent list. The in-memory state is
// untouched on failure.
func (e *Engine) LoadConfig(path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := e.store.Load(path); err != nil {
		return err
	}
	e.recent.Add(state.ListConfigs, path)
	_ = e.recent.Save()
	return nil
}

// ApplyPreset applies a builtin preset by name.
func (e *Engine) ApplyPreset(name string) ([]preset.Change, error) {
	def, ok := preset.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return preset.Apply(e.store, def), nil
}
