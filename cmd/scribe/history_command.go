package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"scribe/internal/batch"
	"scribe/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transcription runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				run, err := store.GetRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				recs, err := store.RecordingsForRun(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderRuns([]history.Run{*run}))
				if len(recs) > 0 {
					fmt.Fprintln(out, renderRecordings(recs))
				}
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show the recordings of a single run")
	return cmd
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		elapsed := "-"
		if d := run.Elapsed(); d > 0 {
			elapsed = d.Round(time.Second).String()
		}
		rows = append(rows, []string{
			run.ID,
			humanize.Time(run.StartedAt),
			string(run.Status),
			strconv.Itoa(run.Recordings),
			strconv.Itoa(run.Failures),
			batch.FormatAudioDuration(run.AudioSeconds),
			elapsed,
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Status", "Recordings", "Failures", "Audio", "Elapsed"},
		rows, 3, 4,
	)
}

func renderRecordings(recs []history.Recording) string {
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		detail := rec.SubtitlePath
		if rec.ErrorMessage != "" {
			detail = rec.ErrorMessage
		}
		rows = append(rows, []string{
			rec.Name,
			string(rec.Status),
			fmt.Sprintf("%.1fs", rec.AudioSeconds),
			strconv.Itoa(rec.Chunks),
			strconv.Itoa(rec.Segments),
			detail,
		})
	}
	return renderTable(
		[]string{"Recording", "Status", "Audio", "Chunks", "Segments", "Output / Error"},
		rows, 2, 3, 4,
	)
}
