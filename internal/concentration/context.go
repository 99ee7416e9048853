package concentration

import (
	"time"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// =============================================================================
// Evaluation context - 실행 1회당 가변 상태 전부 (전역 상태 없음)
// =============================================================================

// TestInputs carries optional per-run inputs some rules need
type TestInputs struct {
	// StatedMaturity 딜의 법정 만기. Long Dated 테스트(35) 입력.
	StatedMaturity *time.Time
}

// Context is the mutable state of a single engine run.
// 엔진 인스턴스는 재사용되지만 Context는 실행마다 새로 만들어 버린다.
type Context struct {
	Assets            map[string]*contracts.Asset
	PrincipalProceeds float64
	Thresholds        map[int]contracts.ResolvedThreshold
	Inputs            TestInputs

	collateral float64
	results    []contracts.TestResult
}

func newContext(in RunInput) *Context {
	ctx := &Context{
		Assets:            in.Assets,
		PrincipalProceeds: in.PrincipalProceeds,
		Thresholds:        in.Thresholds,
		Inputs:            in.Inputs,
		results:           make([]contracts.TestResult, 0, len(in.Thresholds)),
	}

	// collateral_principal_amount = Σ par (defaulted 포함) + proceeds
	ctx.collateral = in.PrincipalProceeds
	for _, a := range in.Assets {
		ctx.collateral += a.ParAmount
	}
	return ctx
}

// CollateralPrincipal is the default denominator for ratio tests
func (c *Context) CollateralPrincipal() float64 {
	return c.collateral
}

// threshold returns the resolved threshold for a test number
func (c *Context) threshold(n TestNumber) (contracts.ResolvedThreshold, bool) {
	rt, ok := c.Thresholds[int(n)]
	return rt, ok
}

// configured reports whether the caller asked for this test number
func (c *Context) configured(n TestNumber) bool {
	_, ok := c.Thresholds[int(n)]
	return ok
}

// sumPar sums par over assets matching include
func (c *Context) sumPar(include func(*contracts.Asset) bool) float64 {
	var total float64
	for _, a := range c.Assets {
		if include(a) {
			total += a.ParAmount
		}
	}
	return total
}

// sumField sums an arbitrary field over assets matching include
func (c *Context) sumField(include func(*contracts.Asset) bool, field func(*contracts.Asset) float64) float64 {
	var total float64
	for _, a := range c.Assets {
		if include(a) {
			total += field(a)
		}
	}
	return total
}

// append adds a finished result
func (c *Context) append(r contracts.TestResult) {
	c.results = append(c.results, r)
}

// Results returns the accumulated results in execution order
func (c *Context) Results() []contracts.TestResult {
	return c.results
}

// =============================================================================
// Result emission - 비교 연산자/초과분 계산의 단일 지점
// =============================================================================

// emitRatio records a ratio test result: result = numerator / collateral.
// 분모 0이면 result 0으로 기록하고 비교는 그대로 적용 (레거시 동작).
func (c *Context) emitRatio(spec TestSpec, numerator float64, comments string) {
	c.emitValue(spec, safeDivide(numerator, c.collateral), numerator, c.collateral, comments)
}

// emitValue records a test whose result is computed directly (weighted
// averages, WARF, diversity). excess: 비율 테스트는 달러 초과분, 값 테스트는 값 차이.
func (c *Context) emitValue(spec TestSpec, result, numerator, denominator float64, comments string) {
	rt, ok := c.threshold(spec.Number)
	if !ok || rt.Source == contracts.SourceNone {
		// 임계치가 없으면 FAIL이 아니라 N/A
		c.append(contracts.TestResult{
			TestID:      rt.TestID,
			TestNumber:  int(spec.Number),
			TestName:    spec.Name,
			Result:      result,
			Numerator:   numerator,
			Denominator: denominator,
			PassFail:    contracts.ResultNA,
			Comments:    joinComments(comments, "no threshold configured"),
			ThresholdSource: contracts.SourceNone,
		})
		return
	}

	passFail := comparePass(spec.Compare, result, rt.Value)

	var excess float64
	if passFail == contracts.ResultFail {
		excess = failExcess(spec, result, rt.Value, denominator)
	}

	c.append(contracts.TestResult{
		TestID:           rt.TestID,
		TestNumber:       int(spec.Number),
		TestName:         spec.Name,
		Threshold:        rt.Value,
		Result:           result,
		Numerator:        numerator,
		Denominator:      denominator,
		PassFail:         passFail,
		ExcessAmount:     excess,
		Comments:         comments,
		ThresholdSource:  rt.Source,
		IsCustomOverride: rt.IsCustomOverride,
		EffectiveDate:    rt.EffectiveDate,
	})
}

// emitNA records an N/A result (불능 조건, 미구현, 계산 오류)
func (c *Context) emitNA(spec TestSpec, comments string) {
	rt, _ := c.threshold(spec.Number)
	c.append(contracts.TestResult{
		TestID:           rt.TestID,
		TestNumber:       int(spec.Number),
		TestName:         spec.Name,
		Threshold:        rt.Value,
		PassFail:         contracts.ResultNA,
		Comments:         comments,
		ThresholdSource:  rt.Source,
		IsCustomOverride: rt.IsCustomOverride,
		EffectiveDate:    rt.EffectiveDate,
	})
}

// emitAutoPass records an unconditional PASS (예: 고정금리 자산이 없는 WAC)
func (c *Context) emitAutoPass(spec TestSpec, comments string) {
	rt, _ := c.threshold(spec.Number)
	c.append(contracts.TestResult{
		TestID:           rt.TestID,
		TestNumber:       int(spec.Number),
		TestName:         spec.Name,
		Threshold:        rt.Value,
		PassFail:         contracts.ResultPass,
		Comments:         comments,
		ThresholdSource:  rt.Source,
		IsCustomOverride: rt.IsCustomOverride,
		EffectiveDate:    rt.EffectiveDate,
	})
}

// comparePass applies the rule's legacy comparator exactly
func comparePass(cmp Comparator, result, threshold float64) contracts.PassFail {
	switch cmp {
	case CompareMax:
		if result < threshold {
			return contracts.ResultPass
		}
	case CompareMin:
		if result > threshold {
			return contracts.ResultPass
		}
	case CompareMinOrEqual:
		if result >= threshold {
			return contracts.ResultPass
		}
	}
	return contracts.ResultFail
}

// failExcess: fraction 테스트는 달러 초과분, 값 테스트(factor/years/score)는 값 차이
func failExcess(spec TestSpec, result, threshold, denominator float64) float64 {
	var diff float64
	switch spec.Compare {
	case CompareMax:
		diff = result - threshold
	default: // min, gte
		diff = threshold - result
	}
	if diff < 0 {
		diff = 0
	}
	if spec.Kind == KindFraction {
		return diff * denominator
	}
	return diff
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func joinComments(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "; " + b
}
