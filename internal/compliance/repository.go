package compliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/adamchaz/clo-compliance/internal/contracts"
	"github.com/adamchaz/clo-compliance/pkg/database"
)

// ErrRunNotFound means no stored run matched (deal, date)
var ErrRunNotFound = errors.New("compliance run not found")

// Repository persists run results and summaries
type Repository struct {
	db *database.DB
}

// NewRepository creates a new Repository instance
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// SaveRun writes one execution's results and its summary atomically.
// 같은 (deal, date) 재실행은 이전 결과를 덮어쓴다.
func (r *Repository) SaveRun(ctx context.Context, summary contracts.ComplianceSummary, results []contracts.TestResult) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`DELETE FROM clo.test_executions WHERE deal_id = $1 AND analysis_date = $2`,
			summary.DealID, summary.AnalysisDate,
		)
		if err != nil {
			return fmt.Errorf("clear prior executions: %w", err)
		}

		for _, res := range results {
			_, err := tx.Exec(ctx, `
				INSERT INTO clo.test_executions (
					deal_id, analysis_date, test_number, test_name,
					threshold, result, numerator, denominator,
					pass_fail, excess_amount, comments,
					threshold_source, is_custom_override, effective_date,
					mag_version, created_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
			`,
				summary.DealID, summary.AnalysisDate, res.TestNumber, res.TestName,
				res.Threshold, res.Result, res.Numerator, res.Denominator,
				string(res.PassFail), res.ExcessAmount, res.Comments,
				string(res.ThresholdSource), res.IsCustomOverride, res.EffectiveDate,
				res.MagVersion,
			)
			if err != nil {
				return fmt.Errorf("insert execution (test %d): %w", res.TestNumber, err)
			}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO clo.compliance_summaries (
				deal_id, analysis_date, total_tests, passed_tests, failed_tests, na_tests,
				total_violations, worst_test_number, worst_test_name, worst_excess,
				compliance_score, mag_version, executed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (deal_id, analysis_date) DO UPDATE SET
				total_tests = EXCLUDED.total_tests,
				passed_tests = EXCLUDED.passed_tests,
				failed_tests = EXCLUDED.failed_tests,
				na_tests = EXCLUDED.na_tests,
				total_violations = EXCLUDED.total_violations,
				worst_test_number = EXCLUDED.worst_test_number,
				worst_test_name = EXCLUDED.worst_test_name,
				worst_excess = EXCLUDED.worst_excess,
				compliance_score = EXCLUDED.compliance_score,
				mag_version = EXCLUDED.mag_version,
				executed_at = EXCLUDED.executed_at
		`,
			summary.DealID, summary.AnalysisDate, summary.TotalTests,
			summary.PassedTests, summary.FailedTests, summary.NATests,
			summary.TotalViolations, summary.WorstTestNumber, summary.WorstTestName,
			summary.WorstExcess, summary.ComplianceScore, summary.MagVersion,
			summary.ExecutedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert summary: %w", err)
		}
		return nil
	})
}

// GetRun loads the stored results and summary for one (deal, date)
func (r *Repository) GetRun(ctx context.Context, dealID string, analysisDate time.Time) (*contracts.ComplianceSummary, []contracts.TestResult, error) {
	var summary contracts.ComplianceSummary
	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			deal_id, analysis_date, total_tests, passed_tests, failed_tests, na_tests,
			total_violations, COALESCE(worst_test_number, 0), COALESCE(worst_test_name, ''),
			COALESCE(worst_excess, 0), compliance_score, COALESCE(mag_version, ''), executed_at
		FROM clo.compliance_summaries
		WHERE deal_id = $1 AND analysis_date = $2
	`, dealID, analysisDate).Scan(
		&summary.DealID, &summary.AnalysisDate, &summary.TotalTests,
		&summary.PassedTests, &summary.FailedTests, &summary.NATests,
		&summary.TotalViolations, &summary.WorstTestNumber, &summary.WorstTestName,
		&summary.WorstExcess, &summary.ComplianceScore, &summary.MagVersion,
		&summary.ExecutedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: %s on %s", ErrRunNotFound, dealID, analysisDate.Format("2006-01-02"))
		}
		return nil, nil, fmt.Errorf("query summary: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT
			test_number, test_name, threshold, result, numerator, denominator,
			pass_fail, excess_amount, COALESCE(comments, ''),
			threshold_source, is_custom_override, effective_date, COALESCE(mag_version, '')
		FROM clo.test_executions
		WHERE deal_id = $1 AND analysis_date = $2
		ORDER BY test_number
	`, dealID, analysisDate)
	if err != nil {
		return nil, nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var results []contracts.TestResult
	for rows.Next() {
		var res contracts.TestResult
		if err := rows.Scan(
			&res.TestNumber, &res.TestName, &res.Threshold, &res.Result,
			&res.Numerator, &res.Denominator, &res.PassFail, &res.ExcessAmount,
			&res.Comments, &res.ThresholdSource, &res.IsCustomOverride,
			&res.EffectiveDate, &res.MagVersion,
		); err != nil {
			return nil, nil, fmt.Errorf("scan execution: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate executions: %w", err)
	}

	return &summary, results, nil
}

// ListSummaries returns recent summaries for a deal, newest first
func (r *Repository) ListSummaries(ctx context.Context, dealID string, limit int) ([]contracts.ComplianceSummary, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT
			deal_id, analysis_date, total_tests, passed_tests, failed_tests, na_tests,
			total_violations, COALESCE(worst_test_number, 0), COALESCE(worst_test_name, ''),
			COALESCE(worst_excess, 0), compliance_score, COALESCE(mag_version, ''), executed_at
		FROM clo.compliance_summaries
		WHERE deal_id = $1
		ORDER BY analysis_date DESC
		LIMIT $2
	`, dealID, limit)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []contracts.ComplianceSummary
	for rows.Next() {
		var s contracts.ComplianceSummary
		if err := rows.Scan(
			&s.DealID, &s.AnalysisDate, &s.TotalTests,
			&s.PassedTests, &s.FailedTests, &s.NATests,
			&s.TotalViolations, &s.WorstTestNumber, &s.WorstTestName,
			&s.WorstExcess, &s.ComplianceScore, &s.MagVersion, &s.ExecutedAt,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return summaries, nil
}
