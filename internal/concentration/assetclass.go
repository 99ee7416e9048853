package concentration

import (
	"fmt"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// =============================================================================
// Asset class / flag rules
// 별도 명시가 없으면 defaulted 자산은 분자에서 제외 (분모에는 항상 포함)
// =============================================================================

// runSeniorSecuredLoans: test 1
// 분자 = senior secured loan par + principal proceeds, 비교는 min(>)
func (e *Engine) runSeniorSecuredLoans(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && e.cfg.IsSeniorSecuredLoan(a.SPPriorityCategory, a.IsLoan())
	})
	numerator += ctx.PrincipalProceeds
	ctx.emitRatio(spec, numerator, "")
}

// runNonSeniorSecuredAssets: test 2, test 1 술어의 여집합
func (e *Engine) runNonSeniorSecuredAssets(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && !e.cfg.IsSeniorSecuredLoan(a.SPPriorityCategory, a.IsLoan())
	})
	ctx.emitRatio(spec, numerator, "")
}

// runLessFrequentThanQuarterly: test 9
// 지급 주기를 모르면(0) 분기 지급으로 간주 — 분자 미포함
func (e *Engine) runLessFrequentThanQuarterly(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.PayFreq > 0 && a.PayFreq < 4
	})
	ctx.emitRatio(spec, numerator, "")
}

// runFixedRateAssets: test 10
func (e *Engine) runFixedRateAssets(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.CouponType == contracts.CouponFixed
	})
	ctx.emitRatio(spec, numerator, "")
}

// runCurrentPayAssets: test 11
// current pay는 부도 인접 카테고리라 defaulted 제외하지 않음
func (e *Engine) runCurrentPayAssets(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return a.CurrentPay
	})
	ctx.emitRatio(spec, numerator, "")
}

// runDIPAssets: test 12
// DIP은 파산 후 신규 여신이므로 defaulted 여부와 무관하게 집계
func (e *Engine) runDIPAssets(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return a.DIP
	})
	ctx.emitRatio(spec, numerator, "")
}

// runUnfundedCommitments: test 13, 분자는 par가 아니라 unfunded_amount 합
func (e *Engine) runUnfundedCommitments(ctx *Context, spec TestSpec) {
	numerator := ctx.sumField(
		func(a *contracts.Asset) bool { return !a.IsDefaulted() },
		func(a *contracts.Asset) float64 { return a.UnfundedAmount },
	)
	ctx.emitRatio(spec, numerator, "")
}

// runParticipations: test 14
func (e *Engine) runParticipations(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.Participation
	})
	ctx.emitRatio(spec, numerator, "")
}

// runBridgeLoans: test 31
func (e *Engine) runBridgeLoans(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.BridgeLoan
	})
	ctx.emitRatio(spec, numerator, "")
}

// runCovLiteLoans: test 32
func (e *Engine) runCovLiteLoans(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.CovLite
	})
	ctx.emitRatio(spec, numerator, "")
}

// runDeferrableSecurities: test 33 (PIK)
func (e *Engine) runDeferrableSecurities(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.PIKAsset
	})
	ctx.emitRatio(spec, numerator, "")
}

// runLettersOfCredit: test 34
func (e *Engine) runLettersOfCredit(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.LOC
	})
	ctx.emitRatio(spec, numerator, "")
}

// runLongDatedAssets: test 35
// 법정 만기 입력이 없으면 판정 불능 → N/A
func (e *Engine) runLongDatedAssets(ctx *Context, spec TestSpec) {
	stated := ctx.Inputs.StatedMaturity
	if stated == nil {
		ctx.emitNA(spec, "no stated maturity provided")
		return
	}

	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && !a.Maturity.IsZero() && a.Maturity.After(*stated)
	})
	ctx.emitRatio(spec, numerator, fmt.Sprintf("stated maturity %s", stated.Format("2006-01-02")))
}

// runSecondLienLoans: test 36
func (e *Engine) runSecondLienLoans(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && e.cfg.IsSecondLienLoan(a.SPPriorityCategory)
	})
	ctx.emitRatio(spec, numerator, "")
}

// runUnsecuredLoans: test 37
func (e *Engine) runUnsecuredLoans(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.IsLoan() && e.cfg.IsUnsecuredLoan(a.SPPriorityCategory)
	})
	ctx.emitRatio(spec, numerator, "")
}

// runBonds: test 43
func (e *Engine) runBonds(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.IsBond()
	})
	ctx.emitRatio(spec, numerator, "")
}

// runDiscountObligations: test 47
// market value / par < cutoff 인 자산 (market value 없으면 제외)
func (e *Engine) runDiscountObligations(ctx *Context, spec TestSpec) {
	cutoff := e.cfg.Ratings.DiscountPriceCutoff
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		if a.IsDefaulted() || a.MarketValue <= 0 || a.ParAmount <= 0 {
			return false
		}
		return a.MarketValue/a.ParAmount < cutoff
	})
	ctx.emitRatio(spec, numerator, "")
}

// runStructuredFinance: test 48
func (e *Engine) runStructuredFinance(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && e.cfg.IsStructuredFinance(a.MdyAssetCategory)
	})
	ctx.emitRatio(spec, numerator, "")
}

// runFloatingNoFloor: test 49
func (e *Engine) runFloatingNoFloor(ctx *Context, spec TestSpec) {
	numerator := ctx.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && a.CouponType == contracts.CouponFloat && a.LiborFloor <= 0
	})
	ctx.emitRatio(spec, numerator, "")
}
