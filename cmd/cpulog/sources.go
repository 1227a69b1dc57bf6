package main

import (
	"fmt"
	"time"

	"github.com/danpilch/cpulog/pkg/config"
	"github.com/danpilch/cpulog/pkg/crosscheck"
	"github.com/spf13/cobra"
)

func (a *app) sourcesCommand() *cobra.Command {
	var (
		check  bool
		window time.Duration
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List available CPU samplers",
		Long: `List available CPU samplers. With --check, measure with every sampler
over the same window and report whether their readings agree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !check {
				for _, name := range a.registry.Names() {
					if name == config.DefaultSource {
						fmt.Fprintf(a.stdout, "%s (default)\n", name)
						continue
					}
					fmt.Fprintln(a.stdout, name)
				}
				return nil
			}

			if window <= 0 {
				return fmt.Errorf("--window must be positive, got %s", window)
			}

			result := crosscheck.NewValidator().Measure(cmd.Context(), a.registry.Samplers(), window)
			if asJSON {
				return crosscheck.ReportJSON(a.stdout, result)
			}
			crosscheck.Report(a.stdout, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "measure with every sampler and compare the readings")
	cmd.Flags().DurationVar(&window, "window", config.DefaultInterval, "measurement window for --check")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the --check result as JSON")
	return cmd
}
