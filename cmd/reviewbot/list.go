package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ignite/review-responder/internal/ozon"
	"github.com/ignite/review-responder/internal/triage"
)

// listedReview is the list command's output row: the fetched review plus
// the lane it would be routed to.
type listedReview struct {
	ozon.Review
	Lane string `json:"lane"`
}

func init() {
	var (
		limit    int
		sku      int64
		status   string
		reviewID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reviews with the lane each would be routed to",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}

			if reviewID != "" {
				return listComments(ctx, app, reviewID, limit)
			}

			req := ozon.ListReviewsRequest{Limit: limit, SortDir: ozon.SortDesc, SKU: sku}
			switch strings.ToLower(status) {
			case "unprocessed":
				req.Status = ozon.StatusUnprocessed
			case "processed":
				req.Status = ozon.StatusProcessed
			case "all":
			default:
				return fmt.Errorf("unknown status %q: want unprocessed, processed or all", status)
			}
			if req.Limit == 0 {
				req.Limit = app.cfg.Engine.Limit
			}

			reviews, err := app.client.ListReviews(ctx, req)
			if err != nil {
				return err
			}

			triageOpts := triage.DefaultOptions()
			triageOpts.TargetRatingMin = app.cfg.Engine.RatingMin
			triageOpts.TargetRatingMax = app.cfg.Engine.RatingMax
			triageOpts.PhotoLaneIncludesText = app.cfg.Engine.PhotoLaneIncludesText

			rows := make([]listedReview, 0, len(reviews))
			for _, r := range reviews {
				lane := "N/A"
				if l, err := triage.Classify(r, triageOpts); err == nil {
					lane = string(l)
				}
				rows = append(rows, listedReview{Review: r, Lane: lane})
			}

			if jsonOut {
				return printJSON(rows)
			}
			for _, row := range rows {
				text := strings.TrimSpace(row.Text)
				if len([]rune(text)) > 60 {
					text = string([]rune(text)[:57]) + "..."
				}
				fmt.Printf("%-14s %d★ %-22s photos=%d comments=%d %s\n",
					row.ID, row.Rating, row.Lane, row.PhotosCount, row.CommentsCount, text)
			}
			fmt.Printf("%d reviews\n", len(rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "reviews to fetch (default from config)")
	cmd.Flags().Int64Var(&sku, "sku", 0, "restrict to one product SKU")
	cmd.Flags().StringVar(&status, "status", "unprocessed", "filter: unprocessed, processed or all")
	cmd.Flags().StringVar(&reviewID, "review-id", "", "list the comments under one review instead")
	rootCmd.AddCommand(cmd)
}

func listComments(ctx context.Context, app *app, reviewID string, limit int) error {
	if limit == 0 {
		limit = app.cfg.Engine.Limit
	}
	comments, err := app.client.ListComments(ctx, reviewID, limit)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(comments)
	}
	for _, c := range comments {
		author := "customer"
		if c.IsOwner {
			author = "seller"
		}
		fmt.Printf("%-14s %-8s %s  %s\n", c.ID, author, c.PublishedAt, strings.TrimSpace(c.Text))
	}
	fmt.Printf("%d comments\n", len(comments))
	return nil
}
