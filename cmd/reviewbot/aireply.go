package main

import (
	"github.com/spf13/cobra"

	"github.com/ignite/review-responder/internal/triage"
)

func init() {
	flags := &runFlags{}
	var reviewID string

	cmd := &cobra.Command{
		Use:   "ai-reply",
		Short: "Generate and post replies to reviews with text",
		Long: `ai-reply processes only the lanes needing generated text: positive
reviews in the target rating range and negative reviews. All texts for a
run come from a single generation call; if any review in the batch is
left uncovered the whole batch fails and nothing is posted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			gen, err := app.generator(ctx)
			if err != nil {
				return err
			}

			opts := flags.options(cmd, app.cfg, []triage.Lane{triage.LaneAIPositive, triage.LaneAINegative})
			opts.ReviewID = reviewID

			result, err := app.coordinator(gen).Run(ctx, opts)
			if err != nil {
				return err
			}
			return printRunResult(result)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&reviewID, "review-id", "", "process a single review by id")
	rootCmd.AddCommand(cmd)
}
