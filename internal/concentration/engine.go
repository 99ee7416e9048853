package concentration

import (
	"fmt"
	"sort"

	"github.com/adamchaz/clo-compliance/internal/contracts"
	"github.com/adamchaz/clo-compliance/pkg/logger"
)

// =============================================================================
// Concentration Test Engine - 순수 계산기
// ⭐ SSOT: 자산 로딩/임계치 해석/저장은 상위 레이어(compliance)에서 조립
// =============================================================================

// Engine evaluates the concentration test catalog over one portfolio snapshot.
// 같은 입력 → 같은 출력 (순수 함수). 실행 간 공유 가변 상태 없음.
type Engine struct {
	cfg Config
	log *logger.Logger
}

// NewEngine creates a new engine with the given rule configuration
func NewEngine(cfg Config, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{cfg: cfg, log: log}
}

// RunInput is everything one evaluation needs
type RunInput struct {
	Assets            map[string]*contracts.Asset
	PrincipalProceeds float64
	// Thresholds: 실행할 테스트 번호 → 해석된 임계치. 키에 없는 테스트는 실행 안 함.
	Thresholds map[int]contracts.ResolvedThreshold
	Inputs     TestInputs
}

// ruleFunc is one test's calculation routine
type ruleFunc func(*Engine, *Context, TestSpec)

// dispatch is the tagged-variant dispatch table. No-op 테스트 번호는 엔트리가
// 없고, 결과는 형제 루틴이 side effect로 방출한다 (catalog의 EmittedBy 참조).
var dispatch = map[TestNumber]ruleFunc{
	TestSeniorSecuredLoans:        (*Engine).runSeniorSecuredLoans,
	TestNonSeniorSecuredAssets:    (*Engine).runNonSeniorSecuredAssets,
	TestSixthLargestObligor:       (*Engine).runSixthLargestObligor,
	TestLargestNonSnrSecObligor:   (*Engine).runLargestNonSnrSecObligor,
	TestLargestDIPObligor:         (*Engine).runLargestDIPObligor,
	TestCaaRatedAssets:            (*Engine).runCaaRatedAssets,
	TestCCCRatedAssets:            (*Engine).runCCCRatedAssets,
	TestLessFrequentThanQuarterly: (*Engine).runLessFrequentThanQuarterly,
	TestFixedRateAssets:           (*Engine).runFixedRateAssets,
	TestCurrentPayAssets:          (*Engine).runCurrentPayAssets,
	TestDIPAssets:                 (*Engine).runDIPAssets,
	TestUnfundedCommitments:       (*Engine).runUnfundedCommitments,
	TestParticipations:            (*Engine).runParticipations,
	TestNonUSCountries:            (*Engine).runNonUSCountries,
	TestNonUSCanadaCountries:      (*Engine).runNonUSCanadaCountries,
	TestCanada:                    (*Engine).runCanada,
	TestTaxJurisdictions:          (*Engine).runTaxJurisdictions,
	TestGroupICountries:           (*Engine).runGroupICountries,
	TestGroupIICountries:          (*Engine).runGroupIICountries,
	TestGroupIIICountries:         (*Engine).runGroupIIICountries,
	TestFirstLargestSPIndustry:    (*Engine).runLargestSPIndustry,
	TestFirstLargestMdyIndustry:   (*Engine).runLargestMdyIndustry,
	TestBridgeLoans:               (*Engine).runBridgeLoans,
	TestCovLiteLoans:              (*Engine).runCovLiteLoans,
	TestDeferrableSecurities:      (*Engine).runDeferrableSecurities,
	TestLettersOfCredit:           (*Engine).runLettersOfCredit,
	TestLongDatedAssets:           (*Engine).runLongDatedAssets,
	TestSecondLienLoans:           (*Engine).runSecondLienLoans,
	TestUnsecuredLoans:            (*Engine).runUnsecuredLoans,
	TestWARF:                      (*Engine).runWARF,
	TestWeightedAvgSpread:         (*Engine).runWeightedAvgSpread,
	TestWeightedAvgCoupon:         (*Engine).runWeightedAvgCoupon,
	TestWeightedAvgLife:           (*Engine).runWeightedAvgLife,
	TestWeightedAvgRecovery:       (*Engine).runWeightedAvgRecovery,
	TestBonds:                     (*Engine).runBonds,
	TestUnitedKingdom:             (*Engine).runUnitedKingdom,
	TestFiveLargestObligors:       (*Engine).runFiveLargestObligors,
	TestDefaultedAssets:           (*Engine).runDefaultedAssets,
	TestDiscountObligations:       (*Engine).runDiscountObligations,
	TestStructuredFinance:         (*Engine).runStructuredFinance,
	TestFloatingNoFloor:           (*Engine).runFloatingNoFloor,
	TestLargestNonUSCountry:       (*Engine).runLargestNonUSCountry,
	TestTenLargestObligors:        (*Engine).runTenLargestObligors,
	TestDiversityScore:            (*Engine).runDiversityScore,
	TestUnratedAssets:             (*Engine).runUnratedAssets,
	TestLargestAsset:              (*Engine).runLargestAsset,
}

// Run evaluates every configured test and returns one result per executed
// test. 설정됐지만 no-op인 번호는 결과를 직접 내지 않는다 — 형제 루틴이 냄.
func (e *Engine) Run(in RunInput) []contracts.TestResult {
	ctx := newContext(in)

	// 설정된 테스트 번호 오름차순 실행 (결정적 순서)
	numbers := make([]int, 0, len(in.Thresholds))
	for n := range in.Thresholds {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	for _, n := range numbers {
		spec, ok := Spec(TestNumber(n))
		if !ok {
			// 카탈로그에 없는 번호: N/A로 보고하고 계속
			ctx.append(contracts.TestResult{
				TestNumber:      n,
				TestName:        fmt.Sprintf("Test %d", n),
				PassFail:        contracts.ResultNA,
				Comments:        "test not implemented",
				ThresholdSource: contracts.SourceNone,
			})
			continue
		}

		if spec.NoOp {
			// 레거시 dead branch 보존: 실행 없음. 결과는 EmittedBy 루틴이 방출.
			e.log.WithField("test_number", n).
				Debugf("skipping no-op test (result emitted by test %d)", spec.EmittedBy)
			continue
		}

		e.runOne(ctx, spec)
	}

	return ctx.Results()
}

// runOne executes a single rule with per-rule fault isolation:
// 한 테스트의 panic이 나머지 테스트 실행을 중단시키지 않는다.
func (e *Engine) runOne(ctx *Context, spec TestSpec) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("test_number", int(spec.Number)).
				Errorf("test calculation failed: %v", r)
			ctx.emitNA(spec, fmt.Sprintf("calculation error: %v", r))
		}
	}()

	fn, ok := dispatch[spec.Number]
	if !ok {
		ctx.emitNA(spec, "test not implemented")
		return
	}
	fn(e, ctx, spec)
}

// DefaultThresholds builds a threshold set from catalog defaults.
// DB 없이 엔진을 돌릴 때(CLI dry-run, 테스트) 사용.
func DefaultThresholds() map[int]contracts.ResolvedThreshold {
	out := make(map[int]contracts.ResolvedThreshold, len(catalog))
	for n, spec := range catalog {
		out[int(n)] = contracts.ResolvedThreshold{
			TestNumber: int(n),
			TestName:   spec.Name,
			Value:      spec.DefaultThreshold,
			Source:     contracts.SourceDefault,
		}
	}
	return out
}
