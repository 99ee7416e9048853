package contracts

import "time"

// PassFail is the outcome of one concentration test
type PassFail string

const (
	ResultPass PassFail = "PASS"
	ResultFail PassFail = "FAIL"
	ResultNA   PassFail = "N/A" // 분모 0, 임계치 없음, 계산 오류
)

// TestResult is the outcome of one test for one (deal, date)
// ⭐ 계약: 엔진 → Aggregator → 저장/응답까지 이 형태 그대로 전달
type TestResult struct {
	TestID           int64           `json:"test_id"`
	TestNumber       int             `json:"test_number"`
	TestName         string          `json:"test_name"`
	Threshold        float64         `json:"threshold"`
	Result           float64         `json:"result"`
	Numerator        float64         `json:"numerator"`
	Denominator      float64         `json:"denominator"`
	PassFail         PassFail        `json:"pass_fail"`
	ExcessAmount     float64         `json:"excess_amount"`
	Comments         string          `json:"comments,omitempty"`
	ThresholdSource  ThresholdSource `json:"threshold_source"`
	IsCustomOverride bool            `json:"is_custom_override"`
	EffectiveDate    *time.Time      `json:"effective_date,omitempty"`
	MagVersion       string          `json:"mag_version,omitempty"`
}

// Passed reports whether the test passed
func (r *TestResult) Passed() bool {
	return r.PassFail == ResultPass
}

// Failed reports whether the test failed
func (r *TestResult) Failed() bool {
	return r.PassFail == ResultFail
}

// ComplianceSummary aggregates one run's results per (deal, date)
type ComplianceSummary struct {
	DealID          string    `json:"deal_id"`
	AnalysisDate    time.Time `json:"analysis_date"`
	TotalTests      int       `json:"total_tests"`
	PassedTests     int       `json:"passed_tests"`
	FailedTests     int       `json:"failed_tests"`
	NATests         int       `json:"na_tests"`
	TotalViolations float64   `json:"total_violations"` // FAIL 초과분 합계
	WorstTestNumber int       `json:"worst_test_number,omitempty"`
	WorstTestName   string    `json:"worst_test_name,omitempty"`
	WorstExcess     float64   `json:"worst_excess,omitempty"`
	ComplianceScore float64   `json:"compliance_score"` // passed / total
	MagVersion      string    `json:"mag_version,omitempty"`
	ExecutedAt      time.Time `json:"executed_at"`
}
