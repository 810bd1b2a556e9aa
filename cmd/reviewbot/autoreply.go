package main

import (
	"github.com/spf13/cobra"

	"github.com/ignite/review-responder/internal/triage"
)

func init() {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "autoreply",
		Short: "Post template replies to text-free five-star reviews",
		Long: `autoreply processes only the template lanes: five-star reviews with no
text get a thank-you template, and those with photos get a photo-specific
one. Reviews needing AI-generated text are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}

			lanes := []triage.Lane{triage.LaneAutoNoText, triage.LaneAutoWithPhotos}
			opts := flags.options(cmd, app.cfg, lanes)
			result, err := app.coordinator(nil).Run(ctx, opts)
			if err != nil {
				return err
			}
			return printRunResult(result)
		},
	}

	flags.register(cmd)
	rootCmd.AddCommand(cmd)
}
