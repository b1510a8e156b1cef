// Package main implements the buildforge CLI, a front-end that turns a
// declarative settings catalogue into validated Nuitka build commands.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/BuildForge/buildforge/internal/engine"
)

var (
	// version is set at build time
	version = "0.1.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buildforge",
		Short: "BuildForge - Build native executables from Python projects",
		Long: `BuildForge drives the Nuitka compiler through a declarative
settings catalogue: every option is described once in a schema, then
validated, compiled into a command line, and executed with streamed
output.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				pterm.DisableColor()
			}
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file to load")
	cmd.PersistentFlags().String("schema", "", "External schema file (default: embedded catalogue)")
	cmd.PersistentFlags().String("tool", "", "Override the tool command, e.g. 'python3 -m nuitka'")

	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newPresetCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// newEngine assembles the engine for a command invocation: environment
// overrides first, then flags, then the optional configuration file.
func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	settings := engine.SettingsFromEnv()

	if schemaPath, _ := cmd.Flags().GetString("schema"); schemaPath != "" {
		settings.SchemaPath = schemaPath
	}
	if tool, _ := cmd.Flags().GetString("tool"); tool != "" {
		settings.ToolCommand = strings.Fields(tool)
	}

	e, err := engine.New(settings)
	if err != nil {
		return nil, err
	}

	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		if err := e.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	return e, nil
}
