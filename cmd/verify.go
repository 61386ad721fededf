package cmd

import (
	"fmt"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/storage"
	"catalog-sync/feature/report"
	"catalog-sync/feature/search"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// verifyCmd checks catalog consistency without mutating anything.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify database schema and search index consistency",
	Long: `Verify runs the read-only consistency checks: the products table must
carry every column the pipeline writes, and the search index object count
should line up with the active catalog.`,
	RunE: runVerify,
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connect to storage for the run archive
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	var index search.IndexClient
	if cfg.Search.Enabled {
		if err := cfg.Search.Validate(); err != nil {
			return err
		}
		index = search.NewHTTPClient(cfg.Search)
	}

	svc := report.NewService(db, report.NewRunStore(client, cfg.Storage.Bucket), index, l)
	result, err := svc.Verify(cmd.Context())
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if result.Schema.Checked {
		if len(result.Schema.MissingColumns) > 0 {
			l.Error("Schema check failed",
				zap.Strings("missing_columns", result.Schema.MissingColumns))
		} else {
			l.Info("Schema check passed")
		}
	}
	if result.Counts.Checked {
		l.Info("Count check",
			zap.Int64("active_products", result.Counts.ActiveProducts),
			zap.Int("index_objects", result.Counts.IndexObjects),
			zap.Int("drift", result.Counts.Drift),
		)
	}

	if len(result.Schema.MissingColumns) > 0 {
		return fmt.Errorf("schema is missing %d column(s)", len(result.Schema.MissingColumns))
	}
	return nil
}
