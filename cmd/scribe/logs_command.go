package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the log of the latest run or of --run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := logs.Locate(cfg.Paths.LogDir, runID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tail, offset, err := logs.Tail(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, 500*time.Millisecond, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run id as shown by scribe history")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	return cmd
}
