// Package engine orchestrates one triage-and-reply run: fetch a page of
// unprocessed reviews, classify them into lanes, resolve reply texts,
// post replies sequentially and mark everything replied as processed in
// a single batched status update.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ignite/review-responder/internal/generate"
	"github.com/ignite/review-responder/internal/ozon"
	"github.com/ignite/review-responder/internal/pkg/logger"
	"github.com/ignite/review-responder/internal/policy"
	"github.com/ignite/review-responder/internal/reply"
	"github.com/ignite/review-responder/internal/triage"
)

// Marketplace is the subset of the Ozon client the engine drives.
type Marketplace interface {
	ListReviews(ctx context.Context, req ozon.ListReviewsRequest) ([]ozon.Review, error)
	CreateComment(ctx context.Context, reviewID, text string) (string, error)
	ChangeStatus(ctx context.Context, reviewIDs []string, status ozon.Status) error
}

// RunLogger receives the finished RunResult for audit.
type RunLogger interface {
	Append(ctx context.Context, runID string, record interface{}) error
}

// ErrConfirmationUnavailable is returned when confirm mode is on but the
// confirmation input has been closed. Treated as a setup error: a
// non-interactive run must pass assume-yes explicitly.
var ErrConfirmationUnavailable = errors.New("confirmation required but input is closed; pass assume-yes for non-interactive runs")

// Options controls a single run.
type Options struct {
	Limit                 int
	SKU                   int64
	ReviewID              string // process only this review; error if absent from the page
	RatingMin             int
	RatingMax             int
	PhotoLaneIncludesText bool
	Lanes                 []triage.Lane // empty selects every actionable lane
	DryRun                bool
	Confirm               bool
	AssumeYes             bool
	SkipStatusUpdate      bool
}

// Coordinator runs the pipeline. It is stateless between runs: every run
// re-fetches and re-classifies, so a crashed run needs no recovery step
// beyond mark-processed for the compensation set.
type Coordinator struct {
	marketplace Marketplace
	selector    *reply.Selector
	generator   generate.Generator
	policy      *policy.Document
	runLog      RunLogger
	limiter     *rate.Limiter
	confirmIn   io.Reader
	confirmOut  io.Writer
}

// NewCoordinator wires the run pipeline. generator may be nil, in which
// case AI lanes are skipped rather than failed.
func NewCoordinator(m Marketplace, sel *reply.Selector, gen generate.Generator, pol *policy.Document, runLog RunLogger) *Coordinator {
	return &Coordinator{
		marketplace: m,
		selector:    sel,
		generator:   gen,
		policy:      pol,
		runLog:      runLog,
		confirmIn:   os.Stdin,
		confirmOut:  os.Stderr,
	}
}

// SetLimiter sets the pacing limiter applied before each comment create.
func (c *Coordinator) SetLimiter(l *rate.Limiter) { c.limiter = l }

// SetConfirmIO overrides the confirmation prompt streams (useful for testing).
func (c *Coordinator) SetConfirmIO(in io.Reader, out io.Writer) {
	c.confirmIn = in
	c.confirmOut = out
}

// Run executes one full pass. Per-review send failures are captured in the
// result; only fetch failures and an unusable confirmation input fail the
// run itself.
func (c *Coordinator) Run(ctx context.Context, opts Options) (*RunResult, error) {
	result := &RunResult{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		DryRun:     opts.DryRun,
		LaneCounts: make(map[string]int),
	}

	reviews, err := c.fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Fetched = len(reviews)
	logger.Info("fetched reviews", "run_id", result.RunID, "count", len(reviews))

	byID := make(map[string]ozon.Review, len(reviews))
	for _, r := range reviews {
		byID[r.ID] = r
	}

	c.classify(reviews, opts, result)
	c.resolveTexts(ctx, byID, result)

	for i := range result.Attempts {
		if result.Attempts[i].State == StateReplyPending {
			result.Planned++
		}
	}

	if opts.Confirm && !opts.AssumeYes && !opts.DryRun && result.Planned > 0 {
		ok, err := c.confirm(result)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Aborted = "declined by operator"
			return c.finish(ctx, result), nil
		}
	}

	if !opts.DryRun {
		c.send(ctx, result)
		c.updateStatuses(ctx, opts, result)
	}

	return c.finish(ctx, result), nil
}

func (c *Coordinator) fetch(ctx context.Context, opts Options) ([]ozon.Review, error) {
	req := ozon.ListReviewsRequest{
		Limit:   opts.Limit,
		SortDir: ozon.SortDesc,
		SKU:     opts.SKU,
		Status:  ozon.StatusUnprocessed,
	}
	// Single-review mode looks the review up regardless of status, so a
	// PROCESSED target is found and rejected by the classifier with its
	// status spelled out, instead of a misleading "not found".
	if opts.ReviewID != "" {
		req.Status = ""
	}

	reviews, err := c.marketplace.ListReviews(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching reviews: %w", err)
	}

	if opts.ReviewID == "" {
		return reviews, nil
	}
	for _, r := range reviews {
		if r.ID == opts.ReviewID {
			return []ozon.Review{r}, nil
		}
	}
	return nil, fmt.Errorf("review %s not found among %d fetched reviews", opts.ReviewID, len(reviews))
}

func (c *Coordinator) classify(reviews []ozon.Review, opts Options, result *RunResult) {
	triageOpts := triage.DefaultOptions()
	if opts.RatingMin > 0 {
		triageOpts.TargetRatingMin = opts.RatingMin
	}
	if opts.RatingMax > 0 {
		triageOpts.TargetRatingMax = opts.RatingMax
	}
	triageOpts.PhotoLaneIncludesText = opts.PhotoLaneIncludesText

	for _, r := range reviews {
		att := ReplyAttempt{ReviewID: r.ID, SKU: r.SKU, Rating: r.Rating}

		lane, err := triage.Classify(r, triageOpts)
		if err != nil {
			att.State = StateSkipped
			att.Error = err.Error()
			result.Attempts = append(result.Attempts, att)
			continue
		}

		att.Lane = string(lane)
		result.LaneCounts[string(lane)]++

		switch {
		case lane.IsSkip():
			att.State = StateSkipped
		case !laneSelected(lane, opts.Lanes):
			att.State = StateSkipped
			att.Error = "lane not selected for this run"
		default:
			att.State = StateClassified
		}
		result.Attempts = append(result.Attempts, att)
	}
}

func laneSelected(lane triage.Lane, selected []triage.Lane) bool {
	if len(selected) == 0 {
		return true
	}
	for _, l := range selected {
		if l == lane {
			return true
		}
	}
	return false
}

// resolveTexts fills ReplyText for every classified attempt. Template lanes
// are resolved one by one; AI lanes are gathered into a single Generate
// call, and a generation failure fails the whole AI batch with zero sends.
func (c *Coordinator) resolveTexts(ctx context.Context, byID map[string]ozon.Review, result *RunResult) {
	aiIndex := make(map[string]int, len(result.Attempts))
	var aiReviews []ozon.Review

	for i := range result.Attempts {
		att := &result.Attempts[i]
		if att.State != StateClassified {
			continue
		}
		lane := triage.Lane(att.Lane)
		review := byID[att.ReviewID]

		if lane.IsAI() {
			aiIndex[att.ReviewID] = i
			aiReviews = append(aiReviews, review)
			continue
		}

		text, err := c.selector.Select(review, lane)
		if err != nil {
			att.State = StateReplyFailed
			att.Error = err.Error()
			continue
		}
		c.setPending(att, text)
	}

	if len(aiReviews) == 0 {
		return
	}

	if c.generator == nil {
		for _, i := range aiIndex {
			result.Attempts[i].State = StateSkipped
			result.Attempts[i].Error = "ai generation disabled"
		}
		return
	}

	replies, err := c.generator.Generate(ctx, aiReviews, c.policyText())
	if err == nil {
		// Coverage is enforced here, not trusted to the generator: a
		// missing or blank id must fail the batch, never post as "".
		replies, err = generate.ValidateCoverage(aiReviews, replies)
	}
	if err != nil {
		logger.Error("reply generation failed", "count", len(aiReviews), "error", err.Error())
		for _, i := range aiIndex {
			result.Attempts[i].State = StateReplyFailed
			result.Attempts[i].Error = err.Error()
		}
		return
	}

	for id, i := range aiIndex {
		c.setPending(&result.Attempts[i], replies[id])
	}
}

func (c *Coordinator) setPending(att *ReplyAttempt, text string) {
	if err := policy.CheckCompliance(text); err != nil {
		att.State = StateReplyFailed
		att.Error = err.Error()
		return
	}
	att.ReplyText = text
	att.State = StateReplyPending
}

func (c *Coordinator) policyText() string {
	if c.policy == nil {
		return ""
	}
	return c.policy.Text
}

func (c *Coordinator) confirm(result *RunResult) (bool, error) {
	lanes := make([]string, 0, len(result.LaneCounts))
	for lane := range result.LaneCounts {
		lanes = append(lanes, lane)
	}
	sort.Strings(lanes)
	for _, lane := range lanes {
		fmt.Fprintf(c.confirmOut, "  %-22s %d\n", lane, result.LaneCounts[lane])
	}
	fmt.Fprintf(c.confirmOut, "Post %d replies? [y/N]: ", result.Planned)

	scanner := bufio.NewScanner(c.confirmIn)
	if !scanner.Scan() {
		return false, ErrConfirmationUnavailable
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

// send posts pending replies one at a time. Each review gets at most one
// create attempt per run; a failed create is recorded, never retried.
func (c *Coordinator) send(ctx context.Context, result *RunResult) {
	for i := range result.Attempts {
		att := &result.Attempts[i]
		if att.State != StateReplyPending {
			continue
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				att.State = StateReplyFailed
				att.Error = err.Error()
				return
			}
		}

		commentID, err := c.marketplace.CreateComment(ctx, att.ReviewID, att.ReplyText)
		if err != nil {
			att.State = StateReplyFailed
			att.Error = err.Error()
			logger.Warn("reply failed", "review_id", att.ReviewID, "error", err.Error())
			continue
		}

		att.State = StateReplied
		att.CommentID = commentID
		result.Sent++
		logger.Info("reply posted", "review_id", att.ReviewID, "lane", att.Lane, "comment_id", commentID)
	}
}

// updateStatuses marks every replied review processed in one batched call.
// On failure the replied IDs become the compensation set: the comments
// exist on the marketplace but the reviews still read UNPROCESSED.
func (c *Coordinator) updateStatuses(ctx context.Context, opts Options, result *RunResult) {
	var ids []string
	for i := range result.Attempts {
		if result.Attempts[i].State == StateReplied {
			ids = append(ids, result.Attempts[i].ReviewID)
		}
	}
	if len(ids) == 0 || opts.SkipStatusUpdate {
		return
	}

	if err := c.marketplace.ChangeStatus(ctx, ids, ozon.StatusProcessed); err != nil {
		logger.Error("status update failed", "count", len(ids), "error", err.Error())
		result.CompensationSet = ids
		for i := range result.Attempts {
			if result.Attempts[i].State == StateReplied {
				result.Attempts[i].State = StateStatusFailed
				result.Attempts[i].Error = err.Error()
			}
		}
		return
	}

	for i := range result.Attempts {
		if result.Attempts[i].State == StateReplied {
			result.Attempts[i].State = StateStatusUpdated
			result.StatusUpdated++
		}
	}
}

func (c *Coordinator) finish(ctx context.Context, result *RunResult) *RunResult {
	result.FinishedAt = time.Now().UTC()

	// Failed covers every REPLY_FAILED attempt, whether it failed during
	// text resolution or at send time.
	result.Failed = 0
	for i := range result.Attempts {
		if result.Attempts[i].State == StateReplyFailed {
			result.Failed++
		}
	}

	if c.runLog != nil {
		if err := c.runLog.Append(ctx, result.RunID, result); err != nil {
			logger.Warn("run log append failed", "run_id", result.RunID, "error", err.Error())
		}
	}
	logger.Info("run finished",
		"run_id", result.RunID,
		"fetched", result.Fetched,
		"sent", result.Sent,
		"failed", result.Failed,
		"status_updated", result.StatusUpdated,
		"compensation", len(result.CompensationSet))
	return result
}
