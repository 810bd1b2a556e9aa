package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ignite/review-responder/internal/config"
	"github.com/ignite/review-responder/internal/engine"
	"github.com/ignite/review-responder/internal/generate"
	"github.com/ignite/review-responder/internal/ozon"
	"github.com/ignite/review-responder/internal/pkg/logger"
	"github.com/ignite/review-responder/internal/policy"
	"github.com/ignite/review-responder/internal/reply"
	"github.com/ignite/review-responder/internal/runlog"
	"github.com/ignite/review-responder/internal/triage"
)

var (
	configPath string
	verbose    bool
	jsonOut    bool
)

var rootCmd = &cobra.Command{
	Use:   "reviewbot",
	Short: "Triage Ozon customer reviews and post replies",
	Long: `reviewbot fetches unprocessed customer reviews from the Ozon Seller API,
classifies them into reply lanes and posts template or AI-generated replies.
Replied reviews are marked processed in one batched status update per run.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(logger.DEBUG)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")
}

// app bundles the wired components every subcommand needs.
type app struct {
	cfg      *config.Config
	client   *ozon.Client
	selector *reply.Selector
	policy   *policy.Document
	runLog   *runlog.Store
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	selector, err := reply.NewSelector(rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return nil, fmt.Errorf("building reply selector: %w", err)
	}

	pol, err := policy.Load(cfg.Policy.Path)
	if err != nil {
		return nil, fmt.Errorf("loading policy document: %w", err)
	}

	runLog, err := runlog.New(ctx, cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("setting up run log: %w", err)
	}

	return &app{
		cfg:      cfg,
		client:   ozon.NewClient(cfg.Ozon),
		selector: selector,
		policy:   pol,
		runLog:   runLog,
	}, nil
}

// generator returns the configured reply generator: Bedrock when enabled,
// otherwise the fixed-template fallback.
func (a *app) generator(ctx context.Context) (generate.Generator, error) {
	if a.cfg.Bedrock.Enabled {
		gen, err := generate.NewBedrockGenerator(ctx, a.cfg.Bedrock)
		if err != nil {
			return nil, fmt.Errorf("setting up Bedrock generator: %w", err)
		}
		return gen, nil
	}
	return generate.NewTemplateGenerator(a.selector), nil
}

func (a *app) coordinator(gen generate.Generator) *engine.Coordinator {
	c := engine.NewCoordinator(a.client, a.selector, gen, a.policy, a.runLog)
	if delay := a.cfg.Engine.Delay(); delay > 0 {
		c.SetLimiter(rate.NewLimiter(rate.Every(delay), 1))
	}
	return c
}

// runFlags are the shared per-run flags. Zero values defer to config.
type runFlags struct {
	limit          int
	sku            int64
	ratingMin      int
	ratingMax      int
	delayMS        int
	dryRun         bool
	confirm        bool
	assumeYes      bool
	noStatusUpdate bool
	photoLaneText  bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", 0, "reviews to fetch per run (default from config)")
	cmd.Flags().Int64Var(&f.sku, "sku", 0, "restrict the run to one product SKU")
	cmd.Flags().IntVar(&f.ratingMin, "rating-min", 0, "lowest rating for the positive AI lane (default from config)")
	cmd.Flags().IntVar(&f.ratingMax, "rating-max", 0, "highest rating for the positive AI lane (default from config)")
	cmd.Flags().IntVar(&f.delayMS, "delay", 0, "milliseconds between successive posts (default from config)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "classify and resolve texts without posting anything")
	cmd.Flags().BoolVar(&f.confirm, "confirm", false, "ask before posting replies")
	cmd.Flags().BoolVarP(&f.assumeYes, "yes", "y", false, "answer confirmation prompts with yes")
	cmd.Flags().BoolVar(&f.noStatusUpdate, "no-status-update", false, "post replies but leave reviews unprocessed")
	cmd.Flags().BoolVar(&f.photoLaneText, "photo-lane-includes-text", false, "route five-star photo reviews with text to the photo template lane")
}

// options builds engine options from flags, deferring to config defaults.
// It also applies the --delay override to cfg, so call it before wiring
// the coordinator.
func (f *runFlags) options(cmd *cobra.Command, cfg *config.Config, lanes []triage.Lane) engine.Options {
	if cmd.Flags().Changed("delay") {
		cfg.Engine.DelayMS = f.delayMS
	}
	opts := engine.Options{
		Limit:                 f.limit,
		SKU:                   f.sku,
		RatingMin:             f.ratingMin,
		RatingMax:             f.ratingMax,
		Lanes:                 lanes,
		DryRun:                f.dryRun,
		Confirm:               f.confirm,
		AssumeYes:             f.assumeYes,
		SkipStatusUpdate:      f.noStatusUpdate,
		PhotoLaneIncludesText: cfg.Engine.PhotoLaneIncludesText,
	}
	if opts.Limit == 0 {
		opts.Limit = cfg.Engine.Limit
	}
	if opts.RatingMin == 0 {
		opts.RatingMin = cfg.Engine.RatingMin
	}
	if opts.RatingMax == 0 {
		opts.RatingMax = cfg.Engine.RatingMax
	}
	if cmd.Flags().Changed("photo-lane-includes-text") {
		opts.PhotoLaneIncludesText = f.photoLaneText
	}
	return opts
}

func printRunResult(result *engine.RunResult) error {
	if jsonOut {
		return printJSON(result)
	}
	fprintRunResult(os.Stdout, result)
	return nil
}

func fprintRunResult(w io.Writer, result *engine.RunResult) {
	if result.Aborted != "" {
		fmt.Fprintf(w, "Run %s aborted: %s\n", result.RunID, result.Aborted)
		return
	}
	fmt.Fprintf(w, "Run %s\n", result.RunID)
	fmt.Fprintf(w, "  fetched:        %d\n", result.Fetched)

	lanes := make([]string, 0, len(result.LaneCounts))
	for lane := range result.LaneCounts {
		lanes = append(lanes, lane)
	}
	sort.Strings(lanes)
	for _, lane := range lanes {
		fmt.Fprintf(w, "  %-15s %d\n", lane+":", result.LaneCounts[lane])
	}

	if result.DryRun {
		fmt.Fprintf(w, "  planned:        %d (dry run, nothing posted)\n", result.Planned)
		return
	}
	fmt.Fprintf(w, "  sent:           %d\n", result.Sent)
	fmt.Fprintf(w, "  failed:         %d\n", result.Failed)
	fmt.Fprintf(w, "  status updated: %d\n", result.StatusUpdated)
	if len(result.CompensationSet) > 0 {
		fmt.Fprintf(w, "  WARNING: %d replies posted but not marked processed; run mark-processed\n", len(result.CompensationSet))
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
