package concentration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// thresholdsFor builds a threshold set from catalog defaults for the given
// test numbers only.
func thresholdsFor(numbers ...TestNumber) map[int]contracts.ResolvedThreshold {
	all := DefaultThresholds()
	out := make(map[int]contracts.ResolvedThreshold, len(numbers))
	for _, n := range numbers {
		out[int(n)] = all[int(n)]
	}
	return out
}

func assetMap(assets ...*contracts.Asset) map[string]*contracts.Asset {
	out := make(map[string]*contracts.Asset, len(assets))
	for _, a := range assets {
		out[a.AssetID] = a
	}
	return out
}

func resultFor(t *testing.T, results []contracts.TestResult, n TestNumber) contracts.TestResult {
	t.Helper()
	for _, r := range results {
		if r.TestNumber == int(n) {
			return r
		}
	}
	t.Fatalf("no result for test %d", n)
	return contracts.TestResult{}
}

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), nil)
}

// Senior secured boundary scenario: A par 900 senior secured loan, B par 50
// defaulted bond, C par 50 Canadian loan with no priority category.
func seniorSecuredScenario() map[string]*contracts.Asset {
	return assetMap(
		&contracts.Asset{
			AssetID: "A", IssuerID: "I-A", IssuerName: "Alpha Corp",
			BondLoan: contracts.AssetLoan, SPPriorityCategory: "SENIOR SECURED LOAN",
			Country: "USA", ParAmount: 900,
		},
		&contracts.Asset{
			AssetID: "B", IssuerID: "I-B", IssuerName: "Beta Corp",
			BondLoan: contracts.AssetBond, Country: "USA",
			ParAmount: 50, DefaultAsset: true,
		},
		&contracts.Asset{
			AssetID: "C", IssuerID: "I-C", IssuerName: "Gamma Corp",
			BondLoan: contracts.AssetLoan, Country: "CANADA", ParAmount: 50,
		},
	)
}

func TestEngine_SeniorSecuredBoundary(t *testing.T) {
	engine := newTestEngine()

	results := engine.Run(RunInput{
		Assets: seniorSecuredScenario(),
		Thresholds: thresholdsFor(
			TestSeniorSecuredLoans, TestNonSeniorSecuredAssets, TestCanada,
		),
	})

	// collateral principal = 900 + 50 + 50 + 0 proceeds = 1000
	ss := resultFor(t, results, TestSeniorSecuredLoans)
	assert.Equal(t, 900.0, ss.Numerator, "defaulted B and non-senior C excluded from numerator")
	assert.Equal(t, 1000.0, ss.Denominator, "defaulted assets still count toward collateral principal")
	assert.Equal(t, 0.90, ss.Result)
	// strict > at the boundary: 0.90 > 0.90 is false
	assert.Equal(t, contracts.ResultFail, ss.PassFail)
	assert.Equal(t, 0.0, ss.ExcessAmount, "boundary failure carries zero excess")

	nss := resultFor(t, results, TestNonSeniorSecuredAssets)
	assert.Equal(t, 50.0, nss.Numerator, "only C qualifies; defaulted B excluded")
	assert.Equal(t, contracts.ResultPass, nss.PassFail)

	canada := resultFor(t, results, TestCanada)
	assert.Equal(t, 50.0, canada.Numerator)
	assert.Equal(t, contracts.ResultPass, canada.PassFail)
}

func TestEngine_SeniorSecuredBoundary_ProceedsInNumerator(t *testing.T) {
	engine := newTestEngine()

	results := engine.Run(RunInput{
		Assets:            seniorSecuredScenario(),
		PrincipalProceeds: 200,
		Thresholds:        thresholdsFor(TestSeniorSecuredLoans),
	})

	ss := resultFor(t, results, TestSeniorSecuredLoans)
	assert.Equal(t, 1100.0, ss.Numerator, "principal proceeds add to the numerator")
	assert.Equal(t, 1200.0, ss.Denominator)
	assert.Equal(t, contracts.ResultPass, ss.PassFail, "1100/1200 > 0.90")
}

func TestEngine_ObligorRanking(t *testing.T) {
	pars := []float64{100, 90, 80, 70, 60, 50, 40}
	assets := make(map[string]*contracts.Asset)
	for i, par := range pars {
		id := string(rune('A' + i))
		assets[id] = &contracts.Asset{
			AssetID:  id,
			IssuerID: "ISS-" + id, IssuerName: "Obligor " + id,
			BondLoan: contracts.AssetLoan, ParAmount: par,
		}
	}

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     assets,
		Thresholds: thresholdsFor(TestSixthLargestObligor, TestFirstLargestObligor),
	})

	require.Len(t, results, 2)

	sixth := resultFor(t, results, TestSixthLargestObligor)
	assert.Equal(t, 50.0, sixth.Numerator, "6th largest obligor is rank 6 (par 50)")
	assert.Equal(t, 490.0, sixth.Denominator)
	assert.Equal(t, "Obligor F", sixth.Comments)

	// Test 4 is a dispatch no-op; its result is a side effect of test 3
	first := resultFor(t, results, TestFirstLargestObligor)
	assert.Equal(t, 100.0, first.Numerator)
	assert.Equal(t, "Obligor A", first.Comments)

	// Emission order: 3 then 4
	assert.Equal(t, int(TestSixthLargestObligor), results[0].TestNumber)
	assert.Equal(t, int(TestFirstLargestObligor), results[1].TestNumber)
}

func TestEngine_ObligorRanking_FewerThanSix(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 100},
			&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 50},
		),
		Thresholds: thresholdsFor(TestSixthLargestObligor),
	})

	sixth := resultFor(t, results, TestSixthLargestObligor)
	assert.Equal(t, 0.0, sixth.Numerator, "fewer than six obligors leaves the 6th slot empty")
	assert.Equal(t, contracts.ResultPass, sixth.PassFail)
}

func TestEngine_NoOpAloneProducesNothing(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     seniorSecuredScenario(),
		Thresholds: thresholdsFor(TestFirstLargestObligor),
	})

	// Test 4 alone is a preserved dead branch: configured, executes nothing
	assert.Empty(t, results)
}

func TestEngine_Determinism(t *testing.T) {
	engine := newTestEngine()
	input := RunInput{
		Assets:     seniorSecuredScenario(),
		Thresholds: DefaultThresholds(),
	}

	first := engine.Run(input)
	second := engine.Run(input)

	require.Equal(t, first, second, "same snapshot and thresholds must yield identical results")
}

func TestEngine_FaultIsolation(t *testing.T) {
	// Force test 7 to panic; every other configured test must still report.
	original := dispatch[TestCaaRatedAssets]
	dispatch[TestCaaRatedAssets] = func(e *Engine, ctx *Context, spec TestSpec) {
		panic("forced failure")
	}
	defer func() { dispatch[TestCaaRatedAssets] = original }()

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     seniorSecuredScenario(),
		Thresholds: DefaultThresholds(),
	})

	caa := resultFor(t, results, TestCaaRatedAssets)
	assert.Equal(t, contracts.ResultNA, caa.PassFail)
	assert.Contains(t, caa.Comments, "forced failure")

	// The remaining active tests all produced results
	for _, n := range AllTestNumbers() {
		spec, _ := Spec(n)
		if spec.NoOp || n == TestCaaRatedAssets {
			continue
		}
		found := false
		for _, r := range results {
			if r.TestNumber == int(n) {
				found = true
				break
			}
		}
		assert.True(t, found, "test %d missing after isolated failure", n)
	}
}

func TestEngine_ZeroDenominator(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     map[string]*contracts.Asset{},
		Thresholds: DefaultThresholds(),
	})

	// No division error; ratios are 0 and the comparator still applies.
	nonUS := resultFor(t, results, TestNonUSCountries)
	assert.Equal(t, 0.0, nonUS.Result)
	assert.Equal(t, contracts.ResultPass, nonUS.PassFail, "0 passes a max rule")

	ss := resultFor(t, results, TestSeniorSecuredLoans)
	assert.Equal(t, 0.0, ss.Result)
	assert.Equal(t, contracts.ResultFail, ss.PassFail, "0 fails a min rule")

	// WAC has no qualifying assets at all: legacy auto-PASS
	wac := resultFor(t, results, TestWeightedAvgCoupon)
	assert.Equal(t, contracts.ResultPass, wac.PassFail)
	assert.Equal(t, "no fixed rate assets", wac.Comments)
}

func TestEngine_MissingThresholdIsNA(t *testing.T) {
	engine := newTestEngine()

	// Resolver returned (0, none) for test 32: N/A, never FAIL
	thresholds := thresholdsFor(TestCovLiteLoans)
	rt := thresholds[int(TestCovLiteLoans)]
	rt.Source = contracts.SourceNone
	rt.Value = 0
	thresholds[int(TestCovLiteLoans)] = rt

	results := engine.Run(RunInput{
		Assets: assetMap(&contracts.Asset{
			AssetID: "A", IssuerID: "1", ParAmount: 100, CovLite: true,
		}),
		Thresholds: thresholds,
	})

	covLite := resultFor(t, results, TestCovLiteLoans)
	assert.Equal(t, contracts.ResultNA, covLite.PassFail)
	assert.Contains(t, covLite.Comments, "no threshold configured")
}

func TestEngine_UnknownTestNumber(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: seniorSecuredScenario(),
		Thresholds: map[int]contracts.ResolvedThreshold{
			99: {TestNumber: 99, Value: 0.5, Source: contracts.SourceDefault},
		},
	})

	require.Len(t, results, 1)
	assert.Equal(t, 99, results[0].TestNumber)
	assert.Equal(t, contracts.ResultNA, results[0].PassFail)
	assert.Equal(t, "test not implemented", results[0].Comments)
}

func TestEngine_LongDatedAssets(t *testing.T) {
	stated := time.Date(2028, 7, 15, 0, 0, 0, 0, time.UTC)
	assets := assetMap(
		&contracts.Asset{
			AssetID: "A", IssuerID: "1", ParAmount: 100,
			Maturity: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		&contracts.Asset{
			AssetID: "B", IssuerID: "2", ParAmount: 900,
			Maturity: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	)

	engine := newTestEngine()

	// Without a stated maturity the test cannot be evaluated
	results := engine.Run(RunInput{
		Assets:     assets,
		Thresholds: thresholdsFor(TestLongDatedAssets),
	})
	longDated := resultFor(t, results, TestLongDatedAssets)
	assert.Equal(t, contracts.ResultNA, longDated.PassFail)

	// With one: only A matures beyond it
	results = engine.Run(RunInput{
		Assets:     assets,
		Thresholds: thresholdsFor(TestLongDatedAssets),
		Inputs:     TestInputs{StatedMaturity: &stated},
	})
	longDated = resultFor(t, results, TestLongDatedAssets)
	assert.Equal(t, 100.0, longDated.Numerator)
	assert.Equal(t, 0.1, longDated.Result)
	assert.Equal(t, contracts.ResultFail, longDated.PassFail, "0.1 exceeds the 0.05 limit")
}
