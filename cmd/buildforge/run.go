package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/BuildForge/buildforge/pkg/runner"
)

func newRunCmd() *cobra.Command {
	var (
		force   bool
		openDir bool
	)

	cmd := &cobra.Command{
		Use:   "run [script.py]",
		Short: "Validate, compile, and execute the build",
		Long: `Validate the configuration, compile it into a command line, and
execute the build with streamed output.

Validation errors always abort. Warnings abort too unless --force is
given; --force never overrides errors. Ctrl-C asks the compiler to
shut down gracefully and kills it after the grace period.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				e.Store().Set("basic.input_file", args[0])
			}

			results := e.ValidateAll()
			printResults(results)
			if results.HasErrors() {
				return fmt.Errorf("%d validation error(s)", len(results.Errors()))
			}
			if warnings := results.Warnings(); len(warnings) > 0 && !force {
				return fmt.Errorf("%d warning(s); fix them or re-run with --force", len(warnings))
			}

			argv, err := e.CommandLine()
			if err != nil {
				return err
			}
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				pterm.Info.Printfln("running: %v", argv)
			}

			handle, err := e.StartBuild(runner.Callbacks{
				OnOutput: func(line string) {
					cmd.Println(line)
				},
				OnError: func(err error) {
					pterm.Warning.Printfln("%v", err)
				},
			})
			if err != nil {
				return err
			}

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(interrupt)

			select {
			case <-interrupt:
				pterm.Warning.Printfln("stopping build...")
				e.StopBuild()
				<-handle.Done()
			case <-handle.Done():
			}

			outcome := handle.Outcome()
			switch outcome.Status {
			case runner.StatusCompleted:
				pterm.Success.Printfln("build completed in %s", outcome.Duration.Round(time.Millisecond))
				if openDir {
					if dir := e.Store().GetString("basic.output_dir"); dir != "" {
						if err := open.Run(dir); err != nil {
							pterm.Warning.Printfln("could not open %s: %v", dir, err)
						}
					}
				}
				return nil
			case runner.StatusTerminated:
				return fmt.Errorf("build terminated after %s", outcome.Duration)
			default:
				return fmt.Errorf("build failed (exit code %d) after %s", outcome.ExitCode, outcome.Duration)
			}
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Run despite warnings (errors still abort)")
	cmd.Flags().BoolVar(&openDir, "open", false, "Open the output directory after a successful build")
	return cmd
}
