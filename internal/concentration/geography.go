package concentration

import (
	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// =============================================================================
// Geography rules
// 국가 매칭은 contracts.Asset.CountryKey() (대문자/trim) 기준
// =============================================================================

// sumParByCountry sums non-defaulted par over a country predicate
func (c *Context) sumParByCountry(match func(string) bool) float64 {
	return c.sumPar(func(a *contracts.Asset) bool {
		return !a.IsDefaulted() && match(a.CountryKey())
	})
}

// runNonUSCountries: test 15
func (e *Engine) runNonUSCountries(ctx *Context, spec TestSpec) {
	geo := &e.cfg.Geography
	numerator := ctx.sumParByCountry(func(country string) bool {
		return country != "" && !geo.IsUS(country)
	})
	ctx.emitRatio(spec, numerator, "")
}

// runNonUSCanadaCountries: test 16
func (e *Engine) runNonUSCanadaCountries(ctx *Context, spec TestSpec) {
	geo := &e.cfg.Geography
	numerator := ctx.sumParByCountry(func(country string) bool {
		return country != "" && !geo.IsUS(country) && !geo.IsCanada(country)
	})
	ctx.emitRatio(spec, numerator, "")
}

// runCanada: test 17
func (e *Engine) runCanada(ctx *Context, spec TestSpec) {
	numerator := ctx.sumParByCountry(e.cfg.Geography.IsCanada)
	ctx.emitRatio(spec, numerator, "")
}

// runUnitedKingdom: test 44
func (e *Engine) runUnitedKingdom(ctx *Context, spec TestSpec) {
	numerator := ctx.sumParByCountry(e.cfg.Geography.IsUK)
	ctx.emitRatio(spec, numerator, "")
}

// runTaxJurisdictions: test 18
func (e *Engine) runTaxJurisdictions(ctx *Context, spec TestSpec) {
	numerator := ctx.sumParByCountry(e.cfg.Geography.IsTaxJurisdiction)
	ctx.emitRatio(spec, numerator, "")
}

// runGroupCountries evaluates a country group total and, as a legacy side
// effect, the largest individual country within the group under the
// sibling's test number (dead dispatch branch 보존).
func (e *Engine) runGroupCountries(ctx *Context, spec TestSpec, match func(string) bool, individual TestNumber) {
	numerator := ctx.sumParByCountry(match)
	ctx.emitRatio(spec, numerator, "")

	indSpec, ok := Spec(individual)
	if !ok || !ctx.configured(individual) {
		return
	}

	ranked := ctx.rankBy(
		func(a *contracts.Asset) bool { return !a.IsDefaulted() && match(a.CountryKey()) },
		func(a *contracts.Asset) string { return a.CountryKey() },
		func(a *contracts.Asset) string { return a.CountryKey() },
	)
	par, name := nthPar(ranked, 1)
	ctx.emitRatio(indSpec, par, name)
}

// runGroupICountries: test 19 (+ side effect: test 20)
func (e *Engine) runGroupICountries(ctx *Context, spec TestSpec) {
	e.runGroupCountries(ctx, spec, e.cfg.Geography.IsGroupI, TestIndividualGroupICountry)
}

// runGroupIICountries: test 21 (+ side effect: test 22)
func (e *Engine) runGroupIICountries(ctx *Context, spec TestSpec) {
	e.runGroupCountries(ctx, spec, e.cfg.Geography.IsGroupII, TestIndividualGroupIICountry)
}

// runGroupIIICountries: test 23 (+ side effect: test 24)
func (e *Engine) runGroupIIICountries(ctx *Context, spec TestSpec) {
	e.runGroupCountries(ctx, spec, e.cfg.Geography.IsGroupIII, TestIndividualGroupIIICountry)
}

// runLargestNonUSCountry: test 50, 미국 제외 국가 랭킹 1위
func (e *Engine) runLargestNonUSCountry(ctx *Context, spec TestSpec) {
	geo := &e.cfg.Geography
	ranked := ctx.rankBy(
		func(a *contracts.Asset) bool {
			country := a.CountryKey()
			return !a.IsDefaulted() && country != "" && !geo.IsUS(country)
		},
		func(a *contracts.Asset) string { return a.CountryKey() },
		func(a *contracts.Asset) string { return a.CountryKey() },
	)
	par, name := nthPar(ranked, 1)
	ctx.emitRatio(spec, par, name)
}
