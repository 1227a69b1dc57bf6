package main

import (
	"fmt"

	"github.com/danpilch/cpulog/pkg/logfile"
	"github.com/danpilch/cpulog/pkg/output"
	"github.com/spf13/cobra"
)

func (a *app) showCommand() *cobra.Command {
	var (
		last   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print recorded samples with summary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.resolveConfig(cmd)
			if err != nil {
				return err
			}
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			if last < 0 {
				return fmt.Errorf("--last must not be negative, got %d", last)
			}

			samples, err := logfile.Read(cfg.LogPath)
			if err != nil {
				if logfile.IsNotExist(err) {
					return fmt.Errorf("no samples recorded yet: %w", err)
				}
				return err
			}
			if last > 0 && len(samples) > last {
				samples = samples[len(samples)-last:]
			}

			return output.NewFormatter(f, a.stdout, cfg.Thresholds).Render(samples)
		},
	}

	cmd.Flags().IntVarP(&last, "last", "n", 0, "only show the last N samples (0 = all)")
	cmd.Flags().StringVarP(&format, "format", "o", string(output.FormatTable), "output format (table, json, tsv, raw)")
	return cmd
}
