package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/notifications"
	"scribe/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, ffmpeg, and the ASR engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderHeading("scribe doctor", colorize))
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			if notify {
				result := preflight.Result{Name: "Notifications", Passed: true, Detail: "test sent"}
				if cfg.Notifications.NtfyTopic == "" {
					result = preflight.Result{Name: "Notifications", Detail: "notifications.ntfy_topic is not set"}
				} else if err := notifications.NewService(cfg).Test(cmd.Context()); err != nil {
					result = preflight.Result{Name: "Notifications", Detail: err.Error()}
				}
				results = append(results, result)
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "Also send a test notification to notifications.ntfy_topic")
	return cmd
}
