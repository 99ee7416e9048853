package concentration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

func TestGeographyGroupSideEffects(t *testing.T) {
	assets := assetMap(
		&contracts.Asset{AssetID: "A", IssuerID: "1", Country: "netherlands", ParAmount: 120},
		&contracts.Asset{AssetID: "B", IssuerID: "2", Country: "AUSTRALIA", ParAmount: 60},
		&contracts.Asset{AssetID: "C", IssuerID: "3", Country: "USA", ParAmount: 820},
	)

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     assets,
		Thresholds: thresholdsFor(TestGroupICountries, TestIndividualGroupICountry),
	})

	require.Len(t, results, 2)

	group := resultFor(t, results, TestGroupICountries)
	assert.Equal(t, 180.0, group.Numerator, "country match is case-insensitive")
	assert.Equal(t, contracts.ResultFail, group.PassFail, "180/1000 exceeds the 0.15 limit")
	assert.InDelta(t, 30.0, group.ExcessAmount, 1e-9)

	individual := resultFor(t, results, TestIndividualGroupICountry)
	assert.Equal(t, 120.0, individual.Numerator, "largest single Group I country")
	assert.Equal(t, "NETHERLANDS", individual.Comments)
	assert.Equal(t, contracts.ResultFail, individual.PassFail, "0.12 exceeds the 0.10 limit")
}

func TestGeographyGroupWithoutSiblingConfigured(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "A", IssuerID: "1", Country: "GERMANY", ParAmount: 50},
			&contracts.Asset{AssetID: "B", IssuerID: "2", Country: "USA", ParAmount: 950},
		),
		Thresholds: thresholdsFor(TestGroupIICountries),
	})

	require.Len(t, results, 1, "sibling result only appears when test 22 is configured")
	assert.Equal(t, int(TestGroupIICountries), results[0].TestNumber)
	assert.Equal(t, 50.0, results[0].Numerator)
}

func TestIndustrySideEffects(t *testing.T) {
	assets := assetMap(
		&contracts.Asset{AssetID: "A", IssuerID: "1", SPIndustry: "HEALTHCARE", ParAmount: 300},
		&contracts.Asset{AssetID: "B", IssuerID: "2", SPIndustry: "SOFTWARE", ParAmount: 250},
		&contracts.Asset{AssetID: "C", IssuerID: "3", SPIndustry: "RETAIL", ParAmount: 200},
		&contracts.Asset{AssetID: "D", IssuerID: "4", SPIndustry: "", ParAmount: 150},
		&contracts.Asset{AssetID: "E", IssuerID: "5", SPIndustry: "HEALTHCARE", ParAmount: 100, DefaultAsset: true},
	)

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assets,
		Thresholds: thresholdsFor(
			TestFirstLargestSPIndustry, TestSecondLargestSPIndustry, TestThirdLargestSPIndustry,
		),
	})

	require.Len(t, results, 3)

	first := resultFor(t, results, TestFirstLargestSPIndustry)
	assert.Equal(t, 300.0, first.Numerator, "defaulted par does not grow the bucket")
	assert.Equal(t, "HEALTHCARE", first.Comments)

	second := resultFor(t, results, TestSecondLargestSPIndustry)
	assert.Equal(t, 250.0, second.Numerator)
	assert.Equal(t, "SOFTWARE", second.Comments)

	third := resultFor(t, results, TestThirdLargestSPIndustry)
	assert.Equal(t, 200.0, third.Numerator)
	assert.Equal(t, "RETAIL", third.Comments)

	// Emission order: 25, 26, 27
	assert.Equal(t, 25, results[0].TestNumber)
	assert.Equal(t, 26, results[1].TestNumber)
	assert.Equal(t, 27, results[2].TestNumber)
}

func TestIndustryUnclassifiedBucket(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "A", IssuerID: "1", MdyIndustry: "", ParAmount: 600},
			&contracts.Asset{AssetID: "B", IssuerID: "2", MdyIndustry: "BANKING", ParAmount: 400},
		),
		Thresholds: thresholdsFor(TestFirstLargestMdyIndustry),
	})

	first := resultFor(t, results, TestFirstLargestMdyIndustry)
	assert.Equal(t, 600.0, first.Numerator)
	assert.Equal(t, "UNCLASSIFIED", first.Comments)
}

func TestRatingBuckets(t *testing.T) {
	assets := assetMap(
		&contracts.Asset{AssetID: "A", IssuerID: "1", MdyRating: "Caa1", SPRating: "B-", ParAmount: 40},
		&contracts.Asset{AssetID: "B", IssuerID: "2", MdyRating: "B2", SPRating: "CCC+", ParAmount: 30},
		&contracts.Asset{AssetID: "C", IssuerID: "3", MdyRating: "Caa2", SPRating: "CCC", ParAmount: 20, DefaultAsset: true},
		&contracts.Asset{AssetID: "D", IssuerID: "4", MdyRating: "NR", SPRating: "", ParAmount: 10},
		&contracts.Asset{AssetID: "E", IssuerID: "5", MdyRating: "Ba3", SPRating: "BB-", ParAmount: 900},
	)

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assets,
		Thresholds: thresholdsFor(
			TestCaaRatedAssets, TestCCCRatedAssets, TestDefaultedAssets, TestUnratedAssets,
		),
	})

	caa := resultFor(t, results, TestCaaRatedAssets)
	assert.Equal(t, 40.0, caa.Numerator, "defaulted Caa2 excluded")
	assert.Equal(t, "1 assets rated Caa1 or below", caa.Comments)

	ccc := resultFor(t, results, TestCCCRatedAssets)
	assert.Equal(t, 30.0, ccc.Numerator, "defaulted CCC excluded")

	defaulted := resultFor(t, results, TestDefaultedAssets)
	assert.Equal(t, 20.0, defaulted.Numerator, "only test 46 sums defaulted par")

	unrated := resultFor(t, results, TestUnratedAssets)
	assert.Equal(t, 10.0, unrated.Numerator, "NR and blank count as unrated")
}

func TestCurrentPayAndDIPIncludeDefaulted(t *testing.T) {
	assets := assetMap(
		&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 100, CurrentPay: true, DefaultAsset: true},
		&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 200, DIP: true, DefaultAsset: true},
		&contracts.Asset{AssetID: "C", IssuerID: "3", ParAmount: 700},
	)

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     assets,
		Thresholds: thresholdsFor(TestCurrentPayAssets, TestDIPAssets, TestLargestDIPObligor),
	})

	currentPay := resultFor(t, results, TestCurrentPayAssets)
	assert.Equal(t, 100.0, currentPay.Numerator, "current pay population ignores the defaulted flag")

	dip := resultFor(t, results, TestDIPAssets)
	assert.Equal(t, 200.0, dip.Numerator, "DIP population ignores the defaulted flag")

	dipObligor := resultFor(t, results, TestLargestDIPObligor)
	assert.Equal(t, 200.0, dipObligor.Numerator)
}

func TestUnfundedCommitmentsSumUnfundedAmount(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 500, UnfundedAmount: 80},
			&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 500, UnfundedAmount: 40, DefaultAsset: true},
		),
		Thresholds: thresholdsFor(TestUnfundedCommitments),
	})

	unfunded := resultFor(t, results, TestUnfundedCommitments)
	assert.Equal(t, 80.0, unfunded.Numerator, "numerator sums unfunded amount, not par")
	assert.Equal(t, 1000.0, unfunded.Denominator)
}

func TestDiscountObligationsRule(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 100, MarketValue: 80},  // 0.80 < 0.85
			&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 100, MarketValue: 85},  // at the cutoff
			&contracts.Asset{AssetID: "C", IssuerID: "3", ParAmount: 100, MarketValue: 0},   // no price
			&contracts.Asset{AssetID: "D", IssuerID: "4", ParAmount: 700, MarketValue: 699},
		),
		Thresholds: thresholdsFor(TestDiscountObligations),
	})

	discount := resultFor(t, results, TestDiscountObligations)
	assert.Equal(t, 100.0, discount.Numerator, "strictly below cutoff; unpriced assets excluded")
}

func TestFloatingNoFloorRule(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 300, CouponType: contracts.CouponFloat, LiborFloor: 0},
			&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 300, CouponType: contracts.CouponFloat, LiborFloor: 0.01},
			&contracts.Asset{AssetID: "C", IssuerID: "3", ParAmount: 400, CouponType: contracts.CouponFixed},
		),
		Thresholds: thresholdsFor(TestFloatingNoFloor),
	})

	noFloor := resultFor(t, results, TestFloatingNoFloor)
	assert.Equal(t, 300.0, noFloor.Numerator)
}

func TestPaymentFrequency(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 100, PayFreq: 2},
			&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 100, PayFreq: 4},
			&contracts.Asset{AssetID: "C", IssuerID: "3", ParAmount: 100, PayFreq: 12},
			&contracts.Asset{AssetID: "D", IssuerID: "4", ParAmount: 700, PayFreq: 0}, // unknown: assume quarterly
		),
		Thresholds: thresholdsFor(TestLessFrequentThanQuarterly),
	})

	r := resultFor(t, results, TestLessFrequentThanQuarterly)
	assert.Equal(t, 100.0, r.Numerator, "only semi-annual A qualifies")
}

func TestLargestAssetRule(t *testing.T) {
	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "L2", IssuerID: "1", ParAmount: 300},
			&contracts.Asset{AssetID: "L1", IssuerID: "1", ParAmount: 300}, // tie: lower ID wins
			&contracts.Asset{AssetID: "L3", IssuerID: "2", ParAmount: 400, DefaultAsset: true},
		),
		Thresholds: thresholdsFor(TestLargestAsset),
	})

	largest := resultFor(t, results, TestLargestAsset)
	assert.Equal(t, 300.0, largest.Numerator, "single position, defaulted excluded")
	assert.Equal(t, "L1", largest.Comments)
}
