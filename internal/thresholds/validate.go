package thresholds

import (
	"errors"
	"fmt"

	"github.com/adamchaz/clo-compliance/internal/concentration"
)

// =============================================================================
// Threshold write validation - ValueKind별 허용 범위
// =============================================================================

var (
	// ErrUnknownTest means the test number is outside the closed catalog
	ErrUnknownTest = errors.New("unknown test number")
	// ErrInvalidThreshold means the value is outside the test's allowed range
	ErrInvalidThreshold = errors.New("invalid threshold value")
)

// NormalizeValue converts percent-style input (7.5) to a fraction (0.075)
// for fraction-kind tests. 1.0 이하 입력은 이미 fraction으로 간주.
func NormalizeValue(testNumber int, value float64) (float64, error) {
	spec, ok := concentration.Spec(concentration.TestNumber(testNumber))
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTest, testNumber)
	}
	if spec.Kind == concentration.KindFraction && value > 1 && value <= 100 {
		return value / 100, nil
	}
	return value, nil
}

// Validate checks a threshold override value against the test's kind bounds
// and the single-obligor override cap.
func Validate(testNumber int, value float64) error {
	spec, ok := concentration.Spec(concentration.TestNumber(testNumber))
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTest, testNumber)
	}

	switch spec.Kind {
	case concentration.KindFraction:
		if value < 0 || value > 1 {
			return fmt.Errorf("%w: test %d requires a fraction in [0,1], got %v", ErrInvalidThreshold, testNumber, value)
		}
	case concentration.KindFactor:
		if value < 0 || value > 10000 {
			return fmt.Errorf("%w: test %d requires a rating factor in [0,10000], got %v", ErrInvalidThreshold, testNumber, value)
		}
	case concentration.KindYears:
		if value < 0 || value > 50 {
			return fmt.Errorf("%w: test %d requires years in [0,50], got %v", ErrInvalidThreshold, testNumber, value)
		}
	case concentration.KindScore:
		if value < 0 {
			return fmt.Errorf("%w: test %d requires a non-negative score, got %v", ErrInvalidThreshold, testNumber, value)
		}
	}

	// 단일 obligor 테스트는 오버라이드 상한 초과 금지
	if spec.CapOverride > 0 && value > spec.CapOverride {
		return fmt.Errorf("%w: test %d override capped at %v, got %v", ErrInvalidThreshold, testNumber, spec.CapOverride, value)
	}
	return nil
}
