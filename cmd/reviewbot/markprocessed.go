package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/review-responder/internal/reconcile"
)

func init() {
	var (
		limit     int
		sku       int64
		dryRun    bool
		confirm   bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "mark-processed",
		Short: "Mark commented-but-unprocessed reviews as processed",
		Long: `mark-processed scans unprocessed reviews and flips any that already
carry a comment to PROCESSED, in batches of 100. It repairs runs whose
replies posted but whose status update failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}

			opts := reconcile.Options{
				Limit:     limit,
				SKU:       sku,
				DryRun:    dryRun,
				Confirm:   confirm,
				AssumeYes: assumeYes,
			}
			if opts.Limit == 0 {
				opts.Limit = app.cfg.Engine.Limit
			}

			result, err := reconcile.New(app.client).Run(ctx, opts)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(result)
			}
			if result.Aborted != "" {
				fmt.Printf("Aborted: %s\n", result.Aborted)
				return nil
			}
			fmt.Printf("scanned %d, eligible %d", result.Scanned, result.Eligible)
			if result.DryRun {
				fmt.Println(" (dry run, nothing updated)")
				return nil
			}
			fmt.Printf(", updated %d\n", result.Updated)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "reviews to scan (default from config)")
	cmd.Flags().Int64Var(&sku, "sku", 0, "restrict the scan to one product SKU")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "scan and report without updating statuses")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "ask before updating statuses")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "answer confirmation prompts with yes")
	rootCmd.AddCommand(cmd)
}
