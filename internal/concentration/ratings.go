package concentration

import (
	"fmt"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// =============================================================================
// Rating bucket rules
// =============================================================================

// runCaaRatedAssets: test 7, Moody's Caa1 이하
func (e *Engine) runCaaRatedAssets(ctx *Context, spec TestSpec) {
	count := 0
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		if a.IsDefaulted() || !e.cfg.Ratings.IsCaa(a.MdyRating) {
			return false
		}
		count++
		return true
	})
	ctx.emitRatio(spec, numerator, fmt.Sprintf("%d assets rated Caa1 or below", count))
}

// runCCCRatedAssets: test 8, S&P CCC+ 이하
func (e *Engine) runCCCRatedAssets(ctx *Context, spec TestSpec) {
	count := 0
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		if a.IsDefaulted() || !e.cfg.Ratings.IsCCC(a.SPRating) {
			return false
		}
		count++
		return true
	})
	ctx.emitRatio(spec, numerator, fmt.Sprintf("%d assets rated CCC+ or below", count))
}

// runDefaultedAssets: test 46
// 유일하게 분자가 defaulted par인 테스트
func (e *Engine) runDefaultedAssets(ctx *Context, spec TestSpec) {
	count := 0
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		if !a.IsDefaulted() {
			return false
		}
		count++
		return true
	})
	ctx.emitRatio(spec, numerator, fmt.Sprintf("%d defaulted assets", count))
}

// runUnratedAssets: test 53, 양 기관 모두 무등급
func (e *Engine) runUnratedAssets(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && !a.IsRated()
	})
	ctx.emitRatio(spec, numerator, "")
}
