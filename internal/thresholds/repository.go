package thresholds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// ErrOverrideNotFound means no deal override row matched
var ErrOverrideNotFound = errors.New("threshold override not found")

// Repository handles threshold persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListDefinitions returns active test definitions ordered by test number
func (r *Repository) ListDefinitions(ctx context.Context) ([]contracts.TestDefinition, error) {
	query := `
		SELECT
			id,
			test_number,
			test_name,
			category,
			default_threshold,
			active
		FROM clo.concentration_tests
		WHERE active = true
		ORDER BY test_number
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query test definitions: %w", err)
	}
	defer rows.Close()

	var defs []contracts.TestDefinition
	for rows.Next() {
		var d contracts.TestDefinition
		if err := rows.Scan(&d.ID, &d.TestNumber, &d.TestName, &d.Category, &d.DefaultThreshold, &d.Active); err != nil {
			return nil, fmt.Errorf("scan test definition: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test definitions: %w", err)
	}
	return defs, nil
}

// GetDealOverrides returns every override row for a deal whose effective
// window covers asOf. 날짜 윈도우 필터는 SQL에서 적용: effective ≤ D < expiry.
func (r *Repository) GetDealOverrides(ctx context.Context, dealID string, asOf time.Time) ([]contracts.ThresholdConfiguration, error) {
	query := `
		SELECT
			dt.id,
			dt.deal_id,
			dt.test_id,
			ct.test_number,
			ct.test_name,
			dt.threshold_value,
			dt.effective_date,
			dt.expiry_date,
			COALESCE(dt.notes, ''),
			dt.created_at
		FROM clo.deal_thresholds dt
		JOIN clo.concentration_tests ct ON ct.id = dt.test_id
		WHERE dt.deal_id = $1
		  AND dt.effective_date <= $2
		  AND (dt.expiry_date IS NULL OR dt.expiry_date > $2)
		ORDER BY ct.test_number, dt.effective_date DESC
	`

	rows, err := r.db.Query(ctx, query, dealID, asOf)
	if err != nil {
		return nil, fmt.Errorf("query deal overrides: %w", err)
	}
	defer rows.Close()

	return scanOverrides(rows)
}

// ListDealOverrides returns all override rows for a deal regardless of window
// (관리 API 조회용)
func (r *Repository) ListDealOverrides(ctx context.Context, dealID string) ([]contracts.ThresholdConfiguration, error) {
	query := `
		SELECT
			dt.id,
			dt.deal_id,
			dt.test_id,
			ct.test_number,
			ct.test_name,
			dt.threshold_value,
			dt.effective_date,
			dt.expiry_date,
			COALESCE(dt.notes, ''),
			dt.created_at
		FROM clo.deal_thresholds dt
		JOIN clo.concentration_tests ct ON ct.id = dt.test_id
		WHERE dt.deal_id = $1
		ORDER BY ct.test_number, dt.effective_date
	`

	rows, err := r.db.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("query deal overrides: %w", err)
	}
	defer rows.Close()

	return scanOverrides(rows)
}

func scanOverrides(rows pgx.Rows) ([]contracts.ThresholdConfiguration, error) {
	var overrides []contracts.ThresholdConfiguration
	for rows.Next() {
		var tc contracts.ThresholdConfiguration
		if err := rows.Scan(
			&tc.ID,
			&tc.DealID,
			&tc.TestID,
			&tc.TestNumber,
			&tc.TestName,
			&tc.ThresholdValue,
			&tc.EffectiveDate,
			&tc.ExpiryDate,
			&tc.Notes,
			&tc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan deal override: %w", err)
		}
		overrides = append(overrides, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deal overrides: %w", err)
	}
	return overrides, nil
}

// UpsertOverride inserts or updates a deal override keyed by
// (deal_id, test_id, effective_date)
func (r *Repository) UpsertOverride(ctx context.Context, tc *contracts.ThresholdConfiguration) error {
	query := `
		INSERT INTO clo.deal_thresholds (
			deal_id,
			test_id,
			threshold_value,
			effective_date,
			expiry_date,
			notes,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW(), NOW())
		ON CONFLICT (deal_id, test_id, effective_date) DO UPDATE SET
			threshold_value = EXCLUDED.threshold_value,
			expiry_date = EXCLUDED.expiry_date,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		tc.DealID,
		tc.TestID,
		tc.ThresholdValue,
		tc.EffectiveDate,
		tc.ExpiryDate,
		tc.Notes,
	).Scan(&tc.ID)
	if err != nil {
		return fmt.Errorf("upsert deal override: %w", err)
	}
	return nil
}

// DeleteOverride removes one override row
func (r *Repository) DeleteOverride(ctx context.Context, dealID string, overrideID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM clo.deal_thresholds WHERE id = $1 AND deal_id = $2`,
		overrideID, dealID,
	)
	if err != nil {
		return fmt.Errorf("delete deal override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

// TestIDByNumber resolves a catalog test number to its definition row id
func (r *Repository) TestIDByNumber(ctx context.Context, testNumber int) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM clo.concentration_tests WHERE test_number = $1`,
		testNumber,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %d", ErrUnknownTest, testNumber)
		}
		return 0, fmt.Errorf("query test id: %w", err)
	}
	return id, nil
}
