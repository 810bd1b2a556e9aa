// Package reconcile repairs status drift: reviews that already carry a
// seller comment but still read UNPROCESSED. The main source of drift is
// a run whose replies posted but whose batched status update failed.
package reconcile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ignite/review-responder/internal/engine"
	"github.com/ignite/review-responder/internal/ozon"
	"github.com/ignite/review-responder/internal/pkg/logger"
)

// statusBatchSize caps one change-status call.
const statusBatchSize = 100

// Options controls one reconciliation pass.
type Options struct {
	Limit     int
	SKU       int64
	DryRun    bool
	Confirm   bool
	AssumeYes bool
}

// Result summarizes one pass. Scanned counts fetched reviews, Eligible
// counts commented-but-unprocessed ones, Updated counts status flips.
type Result struct {
	Scanned   int      `json:"scanned"`
	Eligible  int      `json:"eligible"`
	Updated   int      `json:"updated"`
	ReviewIDs []string `json:"review_ids,omitempty"`
	DryRun    bool     `json:"dry_run"`
	Aborted   string   `json:"aborted,omitempty"`
}

// Reconciler scans for commented-but-unprocessed reviews and marks them
// processed in batches.
type Reconciler struct {
	marketplace engine.Marketplace
	confirmIn   io.Reader
	confirmOut  io.Writer
}

// New creates a reconciler over the given marketplace client.
func New(m engine.Marketplace) *Reconciler {
	return &Reconciler{marketplace: m, confirmIn: os.Stdin, confirmOut: os.Stderr}
}

// SetConfirmIO overrides the confirmation prompt streams (useful for testing).
func (r *Reconciler) SetConfirmIO(in io.Reader, out io.Writer) {
	r.confirmIn = in
	r.confirmOut = out
}

// Run performs one pass. Classification is by observable marketplace state
// only: any unprocessed review with at least one comment is eligible,
// regardless of who posted the comment or when.
func (r *Reconciler) Run(ctx context.Context, opts Options) (*Result, error) {
	reviews, err := r.marketplace.ListReviews(ctx, ozon.ListReviewsRequest{
		Limit:   opts.Limit,
		SortDir: ozon.SortDesc,
		SKU:     opts.SKU,
		Status:  ozon.StatusUnprocessed,
	})
	if err != nil {
		return nil, fmt.Errorf("scanning unprocessed reviews: %w", err)
	}

	result := &Result{Scanned: len(reviews), DryRun: opts.DryRun}
	for _, review := range reviews {
		if review.CommentsCount > 0 {
			result.ReviewIDs = append(result.ReviewIDs, review.ID)
		}
	}
	result.Eligible = len(result.ReviewIDs)
	logger.Info("reconcile scan", "scanned", result.Scanned, "eligible", result.Eligible)

	if result.Eligible == 0 || opts.DryRun {
		return result, nil
	}

	if opts.Confirm && !opts.AssumeYes {
		ok, err := r.confirm(result.Eligible)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Aborted = "declined by operator"
			return result, nil
		}
	}

	for start := 0; start < len(result.ReviewIDs); start += statusBatchSize {
		end := start + statusBatchSize
		if end > len(result.ReviewIDs) {
			end = len(result.ReviewIDs)
		}
		batch := result.ReviewIDs[start:end]

		if err := r.marketplace.ChangeStatus(ctx, batch, ozon.StatusProcessed); err != nil {
			return result, fmt.Errorf("marking %d reviews processed: %w", len(batch), err)
		}
		result.Updated += len(batch)
		logger.Info("reconcile batch applied", "size", len(batch), "total", result.Updated)
	}

	return result, nil
}

func (r *Reconciler) confirm(eligible int) (bool, error) {
	fmt.Fprintf(r.confirmOut, "Mark %d commented reviews as processed? [y/N]: ", eligible)

	scanner := bufio.NewScanner(r.confirmIn)
	if !scanner.Scan() {
		return false, engine.ErrConfirmationUnavailable
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}
