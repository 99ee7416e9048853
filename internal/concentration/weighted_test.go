package concentration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

func TestWARFRatingFallbackAndDefault(t *testing.T) {
	assets := assetMap(
		// dp_rating_warf wins over the plain rating
		&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 500, MdyDPRatingWARF: "B2", MdyRating: "Aaa"},
		// unlisted rating falls back to the default factor 10000
		&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 500, MdyRating: "NR"},
		// defaulted assets are outside the WARF population
		&contracts.Asset{AssetID: "C", IssuerID: "3", ParAmount: 999, MdyRating: "C", DefaultAsset: true},
	)

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     assets,
		Thresholds: thresholdsFor(TestWARF),
	})

	warf := resultFor(t, results, TestWARF)
	// (500*2720 + 500*10000) / 1000 = 6360
	assert.Equal(t, 6360.0, warf.Result)
	assert.Equal(t, 1000.0, warf.Denominator, "par-weighted over performing assets only")
	assert.Equal(t, contracts.ResultFail, warf.PassFail)
	assert.Equal(t, 3640.0, warf.ExcessAmount, "factor tests carry the raw difference")
	assert.Equal(t, "1 assets at default factor 10000", warf.Comments)
}

func TestWeightedAvgSpreadFloatOnly(t *testing.T) {
	assets := assetMap(
		&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 600, CouponType: contracts.CouponFloat, CpnSpread: 0.05},
		&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 400, CouponType: contracts.CouponFloat, CpnSpread: 0.03},
		&contracts.Asset{AssetID: "C", IssuerID: "3", ParAmount: 999, CouponType: contracts.CouponFixed, Coupon: 0.09},
	)

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     assets,
		Thresholds: thresholdsFor(TestWeightedAvgSpread),
	})

	was := resultFor(t, results, TestWeightedAvgSpread)
	// (600*0.05 + 400*0.03) / 1000 = 0.042
	assert.InDelta(t, 0.042, was.Result, 1e-12)
	assert.Equal(t, contracts.ResultPass, was.PassFail, "0.042 clears the 0.04 minimum")
}

func TestWeightedAvgCouponBoundary(t *testing.T) {
	engine := newTestEngine()

	// Exactly at the minimum: >= passes
	results := engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 100, CouponType: contracts.CouponFixed, Coupon: 0.07},
		),
		Thresholds: thresholdsFor(TestWeightedAvgCoupon),
	})
	wac := resultFor(t, results, TestWeightedAvgCoupon)
	assert.Equal(t, 0.07, wac.Result)
	assert.Equal(t, contracts.ResultPass, wac.PassFail, "WAC passes at the boundary")

	// No fixed rate assets at all: automatic PASS
	results = engine.Run(RunInput{
		Assets: assetMap(
			&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 100, CouponType: contracts.CouponFloat},
		),
		Thresholds: thresholdsFor(TestWeightedAvgCoupon),
	})
	wac = resultFor(t, results, TestWeightedAvgCoupon)
	assert.Equal(t, contracts.ResultPass, wac.PassFail)
	assert.Equal(t, "no fixed rate assets", wac.Comments)
}

func TestWeightedAvgLifeRounding(t *testing.T) {
	assets := assetMap(
		&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 100, WAL: 3.0},
		&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 50, WAL: 4.5},
		// WAL includes defaulted holdings
		&contracts.Asset{AssetID: "C", IssuerID: "3", ParAmount: 50, WAL: 8.0, DefaultAsset: true},
	)

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     assets,
		Thresholds: thresholdsFor(TestWeightedAvgLife),
	})

	wal := resultFor(t, results, TestWeightedAvgLife)
	// (300 + 225 + 400) / 200 = 4.625 → rounds to 4.63
	assert.Equal(t, 4.63, wal.Result)
	assert.Equal(t, contracts.ResultPass, wal.PassFail)
}

func TestWeightedAvgRecoveryFallback(t *testing.T) {
	assets := assetMap(
		&contracts.Asset{AssetID: "A", IssuerID: "1", ParAmount: 500, MdyRecoveryRate: 0.60},
		// no recovery of its own: category table supplies 0.45
		&contracts.Asset{AssetID: "B", IssuerID: "2", ParAmount: 500, SPPriorityCategory: "SENIOR SECURED LOAN"},
	)

	engine := newTestEngine()
	results := engine.Run(RunInput{
		Assets:     assets,
		Thresholds: thresholdsFor(TestWeightedAvgRecovery),
	})

	recovery := resultFor(t, results, TestWeightedAvgRecovery)
	// (500*0.60 + 500*0.45) / 1000 = 0.525
	assert.InDelta(t, 0.525, recovery.Result, 1e-12)
	assert.Equal(t, contracts.ResultPass, recovery.PassFail, "0.525 clears the 0.47 minimum")
}
