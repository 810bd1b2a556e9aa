package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/review-responder/internal/triage"
)

// stepLanes maps a pipeline step name to the lanes it covers.
func stepLanes(step string) ([]triage.Lane, error) {
	switch step {
	case "":
		return nil, nil
	case "auto":
		return []triage.Lane{triage.LaneAutoNoText, triage.LaneAutoWithPhotos}, nil
	case "ai-positive":
		return []triage.Lane{triage.LaneAIPositive}, nil
	case "ai-negative":
		return []triage.Lane{triage.LaneAINegative}, nil
	default:
		return nil, fmt.Errorf("unknown step %q: want auto, ai-positive or ai-negative", step)
	}
}

func init() {
	flags := &runFlags{}
	var step string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every reply lane in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lanes, err := stepLanes(step)
			if err != nil {
				return err
			}

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			gen, err := app.generator(ctx)
			if err != nil {
				return err
			}

			opts := flags.options(cmd, app.cfg, lanes)
			result, err := app.coordinator(gen).Run(ctx, opts)
			if err != nil {
				return err
			}
			return printRunResult(result)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&step, "step", "", "run a single pipeline step: auto, ai-positive or ai-negative")
	rootCmd.AddCommand(cmd)
}
