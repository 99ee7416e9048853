package concentration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsClosedAndContiguous(t *testing.T) {
	require.Equal(t, 54, CatalogSize())

	numbers := AllTestNumbers()
	require.Len(t, numbers, 54)
	for i, n := range numbers {
		assert.Equal(t, TestNumber(i+1), n, "test numbers must run 1..54 with no gaps")
	}

	for n, spec := range catalog {
		assert.Equal(t, n, spec.Number, "map key and spec number must agree for %d", n)
		assert.NotEmpty(t, spec.Name, "test %d has no name", n)
		assert.NotEmpty(t, spec.Category, "test %d has no category", n)
	}
}

func TestCatalogNoOpWiring(t *testing.T) {
	// 4←3, 20←19, 22←21, 24←23, 26/27←25, 29/30←28
	expected := map[TestNumber]TestNumber{
		TestFirstLargestObligor:       TestSixthLargestObligor,
		TestIndividualGroupICountry:   TestGroupICountries,
		TestIndividualGroupIICountry:  TestGroupIICountries,
		TestIndividualGroupIIICountry: TestGroupIIICountries,
		TestSecondLargestSPIndustry:   TestFirstLargestSPIndustry,
		TestThirdLargestSPIndustry:    TestFirstLargestSPIndustry,
		TestSecondLargestMdyIndustry:  TestFirstLargestMdyIndustry,
		TestThirdLargestMdyIndustry:   TestFirstLargestMdyIndustry,
	}

	for n, spec := range catalog {
		emitter, isNoOp := expected[n]
		assert.Equal(t, isNoOp, spec.NoOp, "no-op flag mismatch for test %d", n)
		if isNoOp {
			assert.Equal(t, emitter, spec.EmittedBy, "wrong emitter for test %d", n)
			_, hasDispatch := dispatch[n]
			assert.False(t, hasDispatch, "no-op test %d must have no dispatch entry", n)
		} else {
			assert.Zero(t, spec.EmittedBy, "active test %d must not name an emitter", n)
			_, hasDispatch := dispatch[n]
			assert.True(t, hasDispatch, "active test %d missing dispatch entry", n)
		}
	}
}

func TestCatalogSingleObligorCaps(t *testing.T) {
	capped := []TestNumber{
		TestSixthLargestObligor, TestFirstLargestObligor,
		TestLargestNonSnrSecObligor, TestLargestDIPObligor, TestLargestAsset,
	}
	for _, n := range capped {
		spec, ok := Spec(n)
		require.True(t, ok)
		assert.Equal(t, 0.05, spec.CapOverride, "test %d override cap", n)
	}

	// Aggregate obligor tests are uncapped
	for _, n := range []TestNumber{TestFiveLargestObligors, TestTenLargestObligors} {
		spec, _ := Spec(n)
		assert.Zero(t, spec.CapOverride, "test %d must be uncapped", n)
	}
}

func TestDefaultThresholdsCoverCatalog(t *testing.T) {
	defaults := DefaultThresholds()
	require.Len(t, defaults, CatalogSize())

	for n, spec := range catalog {
		rt, ok := defaults[int(n)]
		require.True(t, ok, "missing default for test %d", n)
		assert.Equal(t, spec.DefaultThreshold, rt.Value)
		assert.Equal(t, spec.Name, rt.TestName)
		assert.False(t, rt.IsCustomOverride)
	}
}
