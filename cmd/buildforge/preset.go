package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/BuildForge/buildforge/pkg/preset"
)

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Apply named bundles of build settings",
	}
	cmd.AddCommand(newPresetListCmd())
	cmd.AddCommand(newPresetApplyCmd())
	return cmd
}

func newPresetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the builtin presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := pterm.TableData{{"NAME", "DESCRIPTION", "SETTINGS"}}
			for _, def := range preset.Builtin {
				rows = append(rows, []string{
					def.Name,
					def.Description,
					pterm.Sprintf("%d", len(def.Applies)),
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
}

func newPresetApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <name>",
		Short: "Apply a preset and save the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}

			changes, err := e.ApplyPreset(args[0])
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				pterm.Info.Printfln("preset %s made no changes", args[0])
				return nil
			}
			for _, change := range changes {
				pterm.Info.Printfln("%s: %v -> %v", change.Key, change.Previous, change.Value)
			}
			return e.SaveConfig(savePathFor(cmd, e))
		},
	}
}
