package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/BuildForge/buildforge/internal/engine"
	"github.com/BuildForge/buildforge/pkg/schema"
	"github.com/BuildForge/buildforge/pkg/state"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write build configuration",
	}
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigResetCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSaveCmd())
	cmd.AddCommand(newConfigRecentCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting's current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			if !e.Store().Has(args[0]) {
				return fmt.Errorf("no value at %q", args[0])
			}
			cmd.Printf("%v\n", e.Store().Get(args[0]))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one setting and save the configuration",
		Long: `Set one setting and save the configuration.

Values are parsed according to the setting's declared type: booleans
accept true/false, integers a number, and list settings a
comma-separated sequence. Keys not declared by the schema are stored
as strings and flagged by validation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}

			value, err := parseValue(e, args[0], args[1])
			if err != nil {
				return err
			}
			e.Store().Set(args[0], value)

			if results := e.ValidateField(args[0]); len(results) > 0 {
				printResults(results)
			}

			if out == "" {
				out = savePathFor(cmd, e)
			}
			return e.SaveConfig(out)
		},
	}

	cmd.Flags().StringVar(&out, "file", "", "Save to this file instead of the loaded or default one")
	return cmd
}

func newConfigResetCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset [key]",
		Short: "Restore a setting (or everything) to schema defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}

			switch {
			case all:
				e.Store().ResetAll()
			case len(args) == 1:
				e.Store().Reset(args[0])
			default:
				return fmt.Errorf("pass a key or --all")
			}
			return e.SaveConfig(savePathFor(cmd, e))
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Reset every setting")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the full configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			if unknown := e.Store().Unrecognized(); len(unknown) > 0 {
				pterm.Warning.Printfln("unrecognized keys: %s", strings.Join(unknown, ", "))
			}
			return printJSON(cmd, e.Store().ToMap())
		},
	}
}

func newConfigSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save [path]",
		Short: "Save the configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if err := e.SaveConfig(path); err != nil {
				return err
			}
			pterm.Success.Printfln("saved %s", e.Store().FilePath())
			return nil
		},
	}
}

func newConfigRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently used configuration files and scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			printRecentList(cmd, "Configurations", e.Recent().Get(state.ListConfigs))
			printRecentList(cmd, "Scripts", e.Recent().Get(state.ListScripts))
			return nil
		},
	}
}

func printRecentList(cmd *cobra.Command, title string, values []string) {
	cmd.Printf("%s:\n", title)
	if len(values) == 0 {
		cmd.Println("  (none)")
		return
	}
	for _, v := range values {
		cmd.Printf("  %s\n", v)
	}
}

// savePathFor picks the file a mutation is written back to: the loaded
// file when --config was given, the default per-user path otherwise.
func savePathFor(cmd *cobra.Command, e *engine.Engine) string {
	if path := e.Store().FilePath(); path != "" {
		return path
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return engine.DefaultConfigPath()
}

// parseValue converts CLI text into the value shape the setting's type
// expects. Unknown keys pass through as strings.
func parseValue(e *engine.Engine, key, raw string) (any, error) {
	def, err := e.Registry().Lookup(key)
	if err != nil {
		return raw, nil
	}

	switch def.Type {
	case schema.TypeBoolean:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", key, raw)
		}
		return v, nil
	case schema.TypeInteger:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", key, raw)
		}
		return v, nil
	case schema.TypeStringList:
		if raw == "" {
			return []any{}, nil
		}
		parts := strings.Split(raw, ",")
		items := make([]any, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		return items, nil
	default:
		return raw, nil
	}
}
