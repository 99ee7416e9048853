package concentration

import (
	"fmt"
	"math"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// =============================================================================
// Weighted average rules - WARF / WAS / WAC / WAL / recovery
// result = Σ(par × value) / Σ(par), 분모 0이면 0
// =============================================================================

// weightedAverage computes a par-weighted average over matching assets
func (c *Context) weightedAverage(
	include func(*contracts.Asset) bool,
	value func(*contracts.Asset) float64,
) (avg, weightedSum, parSum float64) {
	for _, a := range c.Assets {
		if !include(a) {
			continue
		}
		weightedSum += a.ParAmount * value(a)
		parSum += a.ParAmount
	}
	return safeDivide(weightedSum, parSum), weightedSum, parSum
}

// runWARF: test 38
// mdy_dp_rating_warf → mdy_dp_rating → mdy_rating 폴백, 미등재 등급은 10000
func (e *Engine) runWARF(ctx *Context, spec TestSpec) {
	missing := 0
	avg, num, den := ctx.weightedAverage(
		func(a *contracts.Asset) bool { return !a.IsDefaulted() },
		func(a *contracts.Asset) float64 {
			rating := a.WARFRating()
			if _, ok := e.cfg.Ratings.WARFFactors[rating]; !ok {
				missing++
			}
			return e.cfg.Ratings.WARFFactor(rating)
		},
	)

	comments := ""
	if missing > 0 {
		comments = fmt.Sprintf("%d assets at default factor %.0f", missing, e.cfg.Ratings.DefaultWARF)
	}
	ctx.emitValue(spec, avg, num, den, comments)
}

// runWeightedAvgSpread: test 39, 변동금리 자산만
func (e *Engine) runWeightedAvgSpread(ctx *Context, spec TestSpec) {
	avg, num, den := ctx.weightedAverage(
		func(a *contracts.Asset) bool {
			return !a.IsDefaulted() && a.CouponType == contracts.CouponFloat
		},
		func(a *contracts.Asset) float64 { return a.CpnSpread },
	)
	ctx.emitValue(spec, avg, num, den, "")
}

// runWeightedAvgCoupon: test 40, 고정금리 자산만
// 고정금리 자산이 전혀 없으면 자동 PASS (레거시 동작)
func (e *Engine) runWeightedAvgCoupon(ctx *Context, spec TestSpec) {
	avg, num, den := ctx.weightedAverage(
		func(a *contracts.Asset) bool {
			return !a.IsDefaulted() && a.CouponType == contracts.CouponFixed
		},
		func(a *contracts.Asset) float64 { return a.Coupon },
	)

	if den == 0 {
		ctx.emitAutoPass(spec, "no fixed rate assets")
		return
	}
	ctx.emitValue(spec, avg, num, den, "")
}

// runWeightedAvgLife: test 41
// 전체 자산 par 가중, 소수 둘째 자리 반올림 (레거시 동작)
func (e *Engine) runWeightedAvgLife(ctx *Context, spec TestSpec) {
	avg, num, den := ctx.weightedAverage(
		func(a *contracts.Asset) bool { return true },
		func(a *contracts.Asset) float64 { return a.WAL },
	)
	rounded := math.Round(avg*100) / 100
	ctx.emitValue(spec, rounded, num, den, "")
}

// runWeightedAvgRecovery: test 42
// 자산에 회수율이 없으면 우선순위 카테고리 테이블로 폴백
func (e *Engine) runWeightedAvgRecovery(ctx *Context, spec TestSpec) {
	avg, num, den := ctx.weightedAverage(
		func(a *contracts.Asset) bool { return !a.IsDefaulted() },
		func(a *contracts.Asset) float64 {
			return e.cfg.Ratings.RecoveryRate(a.MdyRecoveryRate, a.SPPriorityCategory)
		},
	)
	ctx.emitValue(spec, avg, num, den, "")
}
