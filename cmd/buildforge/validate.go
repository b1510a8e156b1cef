package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/BuildForge/buildforge/pkg/validate"
)

func newValidateCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the current configuration",
		Long: `Validate the current configuration against the settings catalogue.

Errors block execution; warnings and informational findings do not.
The command exits non-zero only when errors are present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}

			var results validate.Results
			if key != "" {
				results = e.ValidateField(key)
			} else {
				results = e.ValidateAll()
			}

			if len(results) == 0 {
				pterm.Success.Printfln("configuration is valid")
				return nil
			}

			printResults(results)

			if errs := results.Errors(); len(errs) > 0 {
				return fmt.Errorf("%d validation error(s)", len(errs))
			}
			pterm.Success.Printfln("no errors (%d warning(s))", len(results.Warnings()))
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "field", "", "Validate a single setting")
	return cmd
}

func printResults(results validate.Results) {
	for _, result := range results {
		line := fmt.Sprintf("%s: %s", result.Field, result.Message)
		if result.Suggestion != "" {
			line += " (" + result.Suggestion + ")"
		}
		switch result.Severity {
		case validate.SeverityError:
			pterm.Error.Printfln("%s", line)
		case validate.SeverityWarning:
			pterm.Warning.Printfln("%s", line)
		default:
			pterm.Info.Printfln("%s", line)
		}
	}
}
