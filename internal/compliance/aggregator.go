package compliance

import (
	"time"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// =============================================================================
// Result aggregation - 실행 1회의 결과를 요약 1행으로
// =============================================================================

// Aggregate folds one run's results into a compliance summary.
// ComplianceScore = passed / total; N/A도 분모에 포함.
func Aggregate(dealID string, analysisDate time.Time, magVersion string, results []contracts.TestResult) contracts.ComplianceSummary {
	summary := contracts.ComplianceSummary{
		DealID:       dealID,
		AnalysisDate: analysisDate,
		MagVersion:   magVersion,
		TotalTests:   len(results),
		ExecutedAt:   time.Now().UTC(),
	}

	for _, r := range results {
		switch r.PassFail {
		case contracts.ResultPass:
			summary.PassedTests++
		case contracts.ResultFail:
			summary.FailedTests++
			summary.TotalViolations += r.ExcessAmount
			if r.ExcessAmount > summary.WorstExcess || summary.WorstTestNumber == 0 {
				summary.WorstTestNumber = r.TestNumber
				summary.WorstTestName = r.TestName
				summary.WorstExcess = r.ExcessAmount
			}
		default:
			summary.NATests++
		}
	}

	if summary.TotalTests > 0 {
		summary.ComplianceScore = float64(summary.PassedTests) / float64(summary.TotalTests)
	}
	return summary
}
