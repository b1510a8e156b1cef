package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/BuildForge/buildforge/pkg/schema"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the settings catalogue",
	}
	cmd.AddCommand(newSchemaListCmd())
	cmd.AddCommand(newSchemaShowCmd())
	return cmd
}

func newSchemaListCmd() *cobra.Command {
	var (
		tabID  string
		risk   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all settings, grouped by tab",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			registry := e.Registry()

			defs := registry.Definitions()
			if tabID != "" {
				defs = registry.TabSettings(tabID)
			}
			if risk != "" {
				tier := schema.RiskTier(risk)
				if !tier.Valid() {
					return fmt.Errorf("unknown risk tier %q", risk)
				}
				filtered := defs[:0:0]
				for _, def := range defs {
					if def.Risk == tier {
						filtered = append(filtered, def)
					}
				}
				defs = filtered
			}

			switch format {
			case "json":
				return printJSON(cmd, defs)
			case "yaml":
				return printYAML(cmd, defs)
			case "table":
				rows := pterm.TableData{{"KEY", "TYPE", "RISK", "FLAG", "DEFAULT"}}
				for _, def := range defs {
					flag := def.Flag
					if def.Positional {
						flag = "(positional)"
					}
					rows = append(rows, []string{
						def.Key,
						string(def.Type),
						string(def.Risk),
						flag,
						fmt.Sprintf("%v", def.Default),
					})
				}
				return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&tabID, "tab", "", "Only settings of one tab")
	cmd.Flags().StringVar(&risk, "risk", "", "Only settings of one risk tier (safe, caution, risky, expert)")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format: table, json, yaml")
	return cmd
}

func newSchemaShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show one setting's full definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			def, err := e.Registry().Lookup(args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd, def)
		},
	}
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

func printYAML(cmd *cobra.Command, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	cmd.Print(strings.TrimRight(string(data), "\n") + "\n")
	return nil
}
