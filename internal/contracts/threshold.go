package contracts

import "time"

// ThresholdSource identifies where a resolved threshold came from
type ThresholdSource string

const (
	SourceDeal    ThresholdSource = "deal"    // 딜별 오버라이드
	SourceDefault ThresholdSource = "default" // 테스트 정의 기본값
	SourceNone    ThresholdSource = "none"    // 없음 → N/A 처리
)

// ThresholdConfiguration is a deal-specific threshold override row
// ⭐ 계약: effective_date ≤ D < expiry_date (expiry null이면 무기한)
type ThresholdConfiguration struct {
	ID             int64      `json:"id"`
	DealID         string     `json:"deal_id"`
	TestID         int64      `json:"test_id"`
	TestNumber     int        `json:"test_number"`
	TestName       string     `json:"test_name"`
	ThresholdValue float64    `json:"threshold_value"`
	EffectiveDate  time.Time  `json:"effective_date"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// EffectiveOn reports whether the override is in force on date d
func (tc *ThresholdConfiguration) EffectiveOn(d time.Time) bool {
	if d.Before(tc.EffectiveDate) {
		return false
	}
	if tc.ExpiryDate != nil && !d.Before(*tc.ExpiryDate) {
		return false
	}
	return true
}

// ResolvedThreshold is the effective threshold for one (deal, test, date)
// Resolver가 산출하고 엔진이 그대로 결과에 기록함
type ResolvedThreshold struct {
	TestID           int64           `json:"test_id"`
	TestNumber       int             `json:"test_number"`
	TestName         string          `json:"test_name"`
	Value            float64         `json:"value"`
	Source           ThresholdSource `json:"source"`
	IsCustomOverride bool            `json:"is_custom_override"`
	EffectiveDate    *time.Time      `json:"effective_date,omitempty"`
}

// TestDefinition is a system-wide concentration test definition row
type TestDefinition struct {
	ID               int64   `json:"id"`
	TestNumber       int     `json:"test_number"`
	TestName         string  `json:"test_name"`
	Category         string  `json:"category"`
	DefaultThreshold float64 `json:"default_threshold"`
	Active           bool    `json:"active"`
}
