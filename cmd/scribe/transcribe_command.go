package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"scribe/internal/asr"
	"scribe/internal/audio"
	"scribe/internal/batch"
	"scribe/internal/history"
	"scribe/internal/logging"
	"scribe/internal/preflight"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "transcribe [files...]",
		Short: "Transcribe the given files, or every recording in input_dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			logger, logPath, err := logging.NewFromConfig(cfg, runID)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
				Dir:     cfg.Paths.LogDir,
				Pattern: logging.LogFilePattern,
				Exclude: []string{logPath},
			})

			out := cmd.OutOrStdout()
			if !skipPreflight {
				if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
					colorize := shouldColorize(cmd.ErrOrStderr())
					for _, r := range failed {
						fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine(r.Name, statusError, r.Detail, colorize))
					}
					return fmt.Errorf("preflight failed; run `scribe doctor` for details")
				}
			}

			var inputs []batch.Input
			if len(args) > 0 {
				inputs, err = batch.InputsFromPaths(args)
			} else {
				inputs, err = batch.DiscoverInputs(cfg.Paths.InputDir, cfg.Transcription.Extensions)
			}
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				fmt.Fprintf(out, "No recordings found in %s\n", cfg.Paths.InputDir)
				return nil
			}

			decoder, err := audio.NewDecoder(cfg.Audio.Decoder, cfg.FFmpegBinary())
			if err != nil {
				return err
			}
			engine, err := asr.New(cfg)
			if err != nil {
				return err
			}

			opts := []batch.Option{batch.WithRunID(runID)}
			store, err := history.Open(cfg)
			if err != nil {
				logging.WarnWithContext(logger, "history store unavailable", "history_open_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "this run will not appear in scribe history"),
				)
			} else {
				defer store.Close()
				opts = append(opts, batch.WithStore(store))
			}

			runner := batch.NewRunner(cfg, decoder, engine, logger, opts...)
			summary, runErr := runner.Run(cmd.Context(), inputs)
			if summary != nil {
				printSummary(out, summary)
				fmt.Fprintf(out, "Log: %s\n", logPath)
			}
			if runErr != nil {
				return runErr
			}
			if failures := summary.Failures(); failures > 0 {
				return fmt.Errorf("%d of %d recordings failed", failures, len(summary.Results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Start without checking directories and the ASR engine")
	return cmd
}

func printSummary(out io.Writer, summary *batch.Summary) {
	rows := make([][]string, 0, len(summary.Results))
	for _, res := range summary.Results {
		detail := res.SubtitlePath
		if res.Err != nil {
			detail = res.Err.Error()
		}
		rows = append(rows, []string{
			res.Input.Title(),
			string(res.Status),
			fmt.Sprintf("%.2fs", res.AudioSeconds),
			strconv.Itoa(res.Chunks),
			strconv.Itoa(res.Segments),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Recording", "Status", "Audio", "Chunks", "Segments", "Output / Error"},
		rows, 2, 3, 4,
	))
	fmt.Fprintf(out, "Total audio duration: %s\n", batch.FormatAudioDuration(summary.AudioSeconds()))
	fmt.Fprintf(out, "Elapsed: %s\n", summary.Elapsed.Round(time.Millisecond))
}
