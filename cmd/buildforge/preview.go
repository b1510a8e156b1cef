package main

import (
	"github.com/spf13/cobra"

	"github.com/BuildForge/buildforge/pkg/compile"
	"github.com/BuildForge/buildforge/pkg/config"
)

func newPreviewCmd() *cobra.Command {
	var (
		asJSON   bool
		diffWith string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the command line the current configuration compiles to",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}

			plan, err := e.CompilePlan()
			if err != nil {
				return err
			}

			if diffWith != "" {
				other := config.NewStore(e.Registry())
				if err := other.Load(diffWith); err != nil {
					return err
				}
				otherPlan, err := compile.Compile(e.Registry(), other.ToMap())
				if err != nil {
					return err
				}
				return printDiff(cmd, compile.Diff(otherPlan, plan))
			}

			if asJSON {
				return printJSON(cmd, plan)
			}
			cmd.Println(plan.RenderString())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full plan as JSON")
	cmd.Flags().StringVar(&diffWith, "diff", "", "Diff against the plan compiled from this configuration file")
	return cmd
}

func printDiff(cmd *cobra.Command, diff *compile.DiffResult) error {
	if diff.Empty() {
		cmd.Println("plans are identical")
		return nil
	}
	for _, id := range diff.Added {
		cmd.Printf("+ %s\n", id)
	}
	for _, id := range diff.Removed {
		cmd.Printf("- %s\n", id)
	}
	for _, id := range diff.Changed {
		cmd.Printf("~ %s\n", id)
	}
	for _, id := range diff.ProvenanceChanged {
		cmd.Printf("? %s (different source settings, same arguments)\n", id)
	}
	return nil
}
