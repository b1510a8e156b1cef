package main

import (
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the host environment for building",
		Long: `Check the host environment: operating system, available C
compilers, and whether the compiler tool responds to a version probe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}
			detector := e.Detector()

			pterm.DefaultSection.Println("Environment")
			pterm.Info.Printfln("platform: %s", detector.OS())
			pterm.Info.Printfln("compilers: %s", strings.Join(detector.AvailableCompilers(), ", "))
			pterm.Info.Printfln("recommended compiler: %s", detector.DefaultCompiler())

			pterm.DefaultSection.Println("Tool")
			tool := e.ToolCommand()

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.Suffix = " probing " + strings.Join(tool, " ")
			s.Start()
			version, probeErr := detector.ToolVersion(tool)
			s.Stop()

			if probeErr != nil {
				pterm.Error.Printfln("%s did not respond: %v", strings.Join(tool, " "), probeErr)
				pterm.Info.Printfln("install it with: pip install nuitka")
				return probeErr
			}
			pterm.Success.Printfln("%s version %s", strings.Join(tool, " "), version)
			return nil
		},
	}
}
