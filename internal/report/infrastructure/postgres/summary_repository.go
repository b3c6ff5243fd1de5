package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	report "energy-report/internal/report/domain"
)

const defaultSummaryTable = "house_energy_reports"

var errNilDB = errors.New("summary repo: nil db")

// SummaryRepository is a Postgres implementation for report summaries.
type SummaryRepository struct {
	db    *sql.DB
	table string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*SummaryRepository)

// WithTable overrides the default table.
func WithTable(table string) RepositoryOption {
	return func(repo *SummaryRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewSummaryRepository constructs a repository with defaults.
func NewSummaryRepository(db *sql.DB, opts ...RepositoryOption) *SummaryRepository {
	repo := &SummaryRepository{
		db:    db,
		table: defaultSummaryTable,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// EnsureSchema creates the summary table when missing.
func (r *SummaryRepository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errNilDB
	}
	_, err := r.db.ExecContext(ctx, r.schemaSQL())
	return err
}

func (r *SummaryRepository) schemaSQL() string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	house_id TEXT PRIMARY KEY,
	source_file TEXT NOT NULL,
	samples INTEGER NOT NULL,
	first_at TIMESTAMPTZ NOT NULL,
	last_at TIMESTAMPTZ NOT NULL,
	max_power_w DOUBLE PRECISION NOT NULL,
	max_at TIMESTAMPTZ NOT NULL,
	min_power_w DOUBLE PRECISION NOT NULL,
	min_at TIMESTAMPTZ NOT NULL,
	mean_power_w DOUBLE PRECISION NOT NULL,
	total_kwh DOUBLE PRECISION NOT NULL,
	price_per_kwh DOUBLE PRECISION NOT NULL,
	cost_amount DOUBLE PRECISION NOT NULL,
	currency TEXT NOT NULL,
	irregular_intervals INTEGER NOT NULL,
	output_dir TEXT NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, r.table)
}

// Save upserts the summary of one house.
func (r *SummaryRepository) Save(ctx context.Context, summary *report.Summary) error {
	if r == nil || r.db == nil {
		return errNilDB
	}
	if err := summary.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	house_id,
	source_file,
	samples,
	first_at,
	last_at,
	max_power_w,
	max_at,
	min_power_w,
	min_at,
	mean_power_w,
	total_kwh,
	price_per_kwh,
	cost_amount,
	currency,
	irregular_intervals,
	output_dir,
	generated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
)
ON CONFLICT (house_id)
DO UPDATE SET
	source_file = EXCLUDED.source_file,
	samples = EXCLUDED.samples,
	first_at = EXCLUDED.first_at,
	last_at = EXCLUDED.last_at,
	max_power_w = EXCLUDED.max_power_w,
	max_at = EXCLUDED.max_at,
	min_power_w = EXCLUDED.min_power_w,
	min_at = EXCLUDED.min_at,
	mean_power_w = EXCLUDED.mean_power_w,
	total_kwh = EXCLUDED.total_kwh,
	price_per_kwh = EXCLUDED.price_per_kwh,
	cost_amount = EXCLUDED.cost_amount,
	currency = EXCLUDED.currency,
	irregular_intervals = EXCLUDED.irregular_intervals,
	output_dir = EXCLUDED.output_dir,
	generated_at = EXCLUDED.generated_at,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		summary.HouseID,
		summary.SourceFile,
		summary.Samples,
		summary.FirstAt.UTC(),
		summary.LastAt.UTC(),
		summary.MaxPowerW,
		summary.MaxAt.UTC(),
		summary.MinPowerW,
		summary.MinAt.UTC(),
		summary.MeanPowerW,
		summary.TotalKWh,
		summary.PricePerKWh,
		summary.CostAmount,
		summary.Currency,
		summary.IrregularIntervals,
		summary.Artifacts.Dir,
		summary.GeneratedAt.UTC(),
	)
	return err
}

// Get loads the summary for houseID.
func (r *SummaryRepository) Get(ctx context.Context, houseID string) (*report.Summary, error) {
	if r == nil || r.db == nil {
		return nil, errNilDB
	}
	if houseID == "" {
		return nil, report.ErrEmptyHouseID
	}

	query := fmt.Sprintf(`
SELECT
	house_id,
	source_file,
	samples,
	first_at,
	last_at,
	max_power_w,
	max_at,
	min_power_w,
	min_at,
	mean_power_w,
	total_kwh,
	price_per_kwh,
	cost_amount,
	currency,
	irregular_intervals,
	output_dir,
	generated_at
FROM %s
WHERE house_id = $1
LIMIT 1`, r.table)

	var s report.Summary
	var outputDir string
	err := r.db.QueryRowContext(ctx, query, houseID).Scan(
		&s.HouseID,
		&s.SourceFile,
		&s.Samples,
		&s.FirstAt,
		&s.LastAt,
		&s.MaxPowerW,
		&s.MaxAt,
		&s.MinPowerW,
		&s.MinAt,
		&s.MeanPowerW,
		&s.TotalKWh,
		&s.PricePerKWh,
		&s.CostAmount,
		&s.Currency,
		&s.IrregularIntervals,
		&outputDir,
		&s.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, report.ErrSummaryNotFound
		}
		return nil, err
	}
	s.Artifacts = report.ArtifactsFor(filepath.Dir(outputDir), s.SourceFile)
	return &s, nil
}
