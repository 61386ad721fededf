package report

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog-sync/core/database"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/pipeline"
	"catalog-sync/feature/search"
)

// Service answers verification and run-history questions. It only ever
// reads: mutations belong to the pipeline.
type Service struct {
	db     *gorm.DB
	runs   *RunStore
	index  search.IndexClient
	logger *zap.Logger
}

// NewService creates the report service. db and index may be nil when the
// deployment lacks that half; the corresponding checks degrade to "skipped".
func NewService(db *gorm.DB, runs *RunStore, index search.IndexClient, logger *zap.Logger) *Service {
	return &Service{db: db, runs: runs, index: index, logger: logger}
}

// LatestRun returns the newest archived run summary, or nil.
func (s *Service) LatestRun(ctx context.Context) (*pipeline.RunSummary, error) {
	return s.runs.Latest(ctx)
}

// Run returns one archived run summary by id, or nil.
func (s *Service) Run(ctx context.Context, id string) (*pipeline.RunSummary, error) {
	return s.runs.Get(ctx, id)
}

// Runs lists archived run ids.
func (s *Service) Runs(ctx context.Context) ([]string, error) {
	return s.runs.List(ctx)
}

// SchemaReport describes the products table check.
type SchemaReport struct {
	Checked        bool     `json:"checked"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// CountReport compares the catalog against the search index.
type CountReport struct {
	Checked        bool  `json:"checked"`
	ActiveProducts int64 `json:"active_products"`
	IndexObjects   int   `json:"index_objects"`
	// Drift is index objects minus active products. The index keeps
	// deactivated products (marked inactive) so a positive drift is
	// normal; a large negative one means the sync is behind.
	Drift int `json:"drift"`
}

// VerifyReport is the combined verification result.
type VerifyReport struct {
	Schema SchemaReport `json:"schema"`
	Counts CountReport  `json:"counts"`
}

// Verify checks schema and index/catalog counts.
func (s *Service) Verify(ctx context.Context) (*VerifyReport, error) {
	report := &VerifyReport{}

	if s.db != nil {
		missing, err := database.MissingColumns(s.db, catalog.Product{}.TableName(), catalog.ProductColumns)
		if err != nil {
			return nil, err
		}
		report.Schema = SchemaReport{Checked: true, MissingColumns: missing}

		var active int64
		err = s.db.WithContext(ctx).
			Model(&catalog.Product{}).
			Where("is_active = ?", true).
			Count(&active).Error
		if err != nil {
			return nil, err
		}
		report.Counts.ActiveProducts = active
	}

	if s.index != nil {
		n, err := s.index.ObjectCount(ctx)
		if err != nil {
			return nil, err
		}
		report.Counts.Checked = s.db != nil
		report.Counts.IndexObjects = n
		report.Counts.Drift = n - int(report.Counts.ActiveProducts)
	}

	return report, nil
}
