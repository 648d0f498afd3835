package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/transcript"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "check <file.srt>...",
		Short:       "Validate SRT files written by scribe",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			bad := 0
			for _, path := range args {
				problems, cues, err := checkSubtitleFile(path)
				if err != nil {
					bad++
					fmt.Fprintln(out, renderStatusLine(path, statusError, err.Error(), colorize))
					continue
				}
				if len(problems) > 0 {
					bad++
					fmt.Fprintln(out, renderStatusLine(path, statusWarn, fmt.Sprintf("%d cues, %d problems", cues, len(problems)), colorize))
					for _, p := range problems {
						fmt.Fprintf(out, "    - %s\n", p)
					}
					continue
				}
				fmt.Fprintln(out, renderStatusLine(path, statusOK, fmt.Sprintf("%d cues", cues), colorize))
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d subtitle files have problems", bad, len(args))
			}
			return nil
		},
	}
}

func checkSubtitleFile(path string) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	cues, err := transcript.ParseSRT(f)
	if err != nil {
		return nil, 0, err
	}
	return transcript.ValidateCues(cues), len(cues), nil
}
