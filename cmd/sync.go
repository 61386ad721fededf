package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/classify"
	"catalog-sync/feature/feed"
	"catalog-sync/feature/pipeline"
	"catalog-sync/feature/reconcile"
	"catalog-sync/feature/report"
	"catalog-sync/feature/search"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncFeedPath          string
	syncDryRun            bool
	syncDeactivateMissing bool
	syncYes               bool
)

// syncCmd runs one full feed import.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import the distributor feed and sync catalog and search index",
	Long: `Sync runs the full pipeline once: parse the inventory feed, classify
products, reconcile against the catalog database, and push changes to the
search index.

Examples:
  # Full run against the configured feed source
  catalog-sync sync

  # Preview what a local feed file would change
  catalog-sync sync --feed ./rsrinventory-new.txt --dry-run

  # Also deactivate products missing from the feed (destructive)
  catalog-sync sync --deactivate-missing --yes`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncFeedPath, "feed", "", "Local feed file (overrides the configured source)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Reconcile and report without writing anything")
	syncCmd.Flags().BoolVar(&syncDeactivateMissing, "deactivate-missing", false, "Deactivate products absent from the feed")
	syncCmd.Flags().BoolVar(&syncYes, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if syncFeedPath != "" {
		cfg.Feed.Path = syncFeedPath
	}
	if syncDryRun {
		cfg.Pipeline.DryRun = true
	}
	if syncDeactivateMissing {
		cfg.Pipeline.DeactivateMissing = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	// Deactivation removes products from sale; make sure it is meant.
	if cfg.Pipeline.DeactivateMissing && !cfg.Pipeline.DryRun {
		if !confirmDeactivation() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	store := catalog.NewGormStore(db)

	// Storage is needed for remote feeds and for archiving run summaries.
	// A local dry-run can live without it.
	var client storage.Client
	if c, err := storage.NewClient(cfg.Storage); err != nil {
		if cfg.Feed.Path == "" {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		l.Warn("Storage unavailable, run summary will not be archived", zap.Error(err))
	} else {
		client = c
	}

	// Feed source and parser
	source, err := feed.NewSource(cfg.Feed, client, cfg.Storage.Bucket)
	if err != nil {
		return err
	}
	parser := feed.NewParser(cfg.Feed)

	// Classification rules
	rules, err := classify.RuleSetsFromConfig(cfg.Rules.Path)
	if err != nil {
		return fmt.Errorf("failed to load classification rules: %w", err)
	}

	// Search dispatcher (optional)
	var dispatcher *search.Dispatcher
	if cfg.Search.Enabled {
		dispatcher = search.NewDispatcher(cfg.Search, search.NewHTTPClient(cfg.Search), l)
	} else {
		l.Info("Search sync disabled, skipping index updates")
	}

	runner := pipeline.NewRunner(
		cfg.Pipeline,
		source,
		parser,
		rules,
		reconcile.NewEngine(cfg.Pricing, l),
		store,
		dispatcher,
		l,
	)

	summary, runErr := runner.Run(ctx)
	printRunSummary(l, summary)

	// Archive the summary even for failed runs; those are the ones the
	// post-mortem needs.
	if client != nil && !summary.DryRun {
		if err := report.NewRunStore(client, cfg.Storage.Bucket).Save(ctx, summary); err != nil {
			l.Warn("Failed to archive run summary", zap.Error(err))
		}
	}

	return runErr
}

// printRunSummary prints a formatted run report using logger.
func printRunSummary(l *zap.Logger, s *pipeline.RunSummary) {
	l = l.With(zap.String("run_id", s.RunID))

	l.Info("Run summary",
		zap.String("stage", string(s.Stage)),
		zap.String("source", s.Source),
		zap.Bool("dry_run", s.DryRun),
		zap.Duration("elapsed", s.Elapsed),
		zap.Int("lines", s.LinesRead),
		zap.Int("parsed", s.Parsed),
		zap.Int("inserted", s.Inserted),
		zap.Int("updated", s.Updated),
		zap.Int("unchanged", s.Unchanged),
		zap.Int("deactivated", s.Deactivated),
	)

	for name, count := range s.Anomalies() {
		if count > 0 {
			l.Warn("Anomaly", zap.String("kind", name), zap.Int("count", count))
		}
	}

	if s.Sync != nil {
		l.Info("Search sync",
			zap.Int("batches", s.Sync.Batches),
			zap.Int("upserted", s.Sync.Upserted),
			zap.Int("failed", s.Sync.Failed),
			zap.Int("retries", s.Sync.Retries),
			zap.Duration("elapsed", s.Sync.Elapsed),
		)
	}
}

// confirmDeactivation prompts the user for confirmation or uses --yes flag.
func confirmDeactivation() bool {
	if syncYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nProducts absent from the feed will be deactivated. Continue? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
