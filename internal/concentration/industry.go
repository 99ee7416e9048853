package concentration

import (
	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// =============================================================================
// Industry concentration rules
// =============================================================================

// unclassifiedIndustry buckets assets with no industry code
const unclassifiedIndustry = "UNCLASSIFIED"

// rankIndustries ranks non-defaulted par by an industry field
func (c *Context) rankIndustries(field func(*contracts.Asset) string) []rankedEntry {
	return c.rankBy(
		func(a *contracts.Asset) bool { return !a.IsDefaulted() },
		func(a *contracts.Asset) string {
			if v := field(a); v != "" {
				return v
			}
			return unclassifiedIndustry
		},
		func(a *contracts.Asset) string {
			if v := field(a); v != "" {
				return v
			}
			return unclassifiedIndustry
		},
	)
}

// runLargestIndustry emits the 1st largest bucket for spec and, as legacy
// side effects, the 2nd and 3rd under the sibling no-op test numbers.
func (e *Engine) runLargestIndustry(ctx *Context, spec TestSpec, ranked []rankedEntry, second, third TestNumber) {
	first, firstName := nthPar(ranked, 1)
	ctx.emitRatio(spec, first, firstName)

	if secondSpec, ok := Spec(second); ok && ctx.configured(second) {
		par, name := nthPar(ranked, 2)
		ctx.emitRatio(secondSpec, par, name)
	}
	if thirdSpec, ok := Spec(third); ok && ctx.configured(third) {
		par, name := nthPar(ranked, 3)
		ctx.emitRatio(thirdSpec, par, name)
	}
}

// runLargestSPIndustry: test 25 (+ side effects: 26, 27)
func (e *Engine) runLargestSPIndustry(ctx *Context, spec TestSpec) {
	ranked := ctx.rankIndustries(func(a *contracts.Asset) string { return a.SPIndustry })
	e.runLargestIndustry(ctx, spec, ranked, TestSecondLargestSPIndustry, TestThirdLargestSPIndustry)
}

// runLargestMdyIndustry: test 28 (+ side effects: 29, 30)
func (e *Engine) runLargestMdyIndustry(ctx *Context, spec TestSpec) {
	ranked := ctx.rankIndustries(func(a *contracts.Asset) string { return a.MdyIndustry })
	e.runLargestIndustry(ctx, spec, ranked, TestSecondLargestMdyIndustry, TestThirdLargestMdyIndustry)
}
