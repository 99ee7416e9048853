package concentration

import (
	"fmt"
	"sort"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

// =============================================================================
// Obligor concentration rules - 그룹핑/정렬/순위 평가
// =============================================================================

// rankedEntry is one bucket of a descending par ranking
type rankedEntry struct {
	Key  string
	Name string // 표시용 (obligor명, 국가명, 산업명)
	Par  float64
}

// rankBy groups matching assets by key and returns buckets sorted by par
// descending. 동순위는 키 오름차순 — 실행 간 결정적 순서 보장.
func (c *Context) rankBy(
	include func(*contracts.Asset) bool,
	key func(*contracts.Asset) string,
	name func(*contracts.Asset) string,
) []rankedEntry {
	buckets := make(map[string]*rankedEntry)
	for _, a := range c.Assets {
		if !include(a) {
			continue
		}
		k := key(a)
		entry, ok := buckets[k]
		if !ok {
			entry = &rankedEntry{Key: k, Name: name(a)}
			buckets[k] = entry
		}
		entry.Par += a.ParAmount
	}

	ranked := make([]rankedEntry, 0, len(buckets))
	for _, entry := range buckets {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Par != ranked[j].Par {
			return ranked[i].Par > ranked[j].Par
		}
		return ranked[i].Key < ranked[j].Key
	})
	return ranked
}

// rankObligors ranks obligors excluding defaulted and DIP assets
// (3, 45, 51, 54번 테스트의 공통 모집단)
func (c *Context) rankObligors() []rankedEntry {
	return c.rankBy(
		func(a *contracts.Asset) bool { return !a.IsDefaulted() && !a.DIP },
		func(a *contracts.Asset) string { return a.ObligorKey() },
		func(a *contracts.Asset) string { return a.IssuerName },
	)
}

// nthPar returns the par of the nth entry (1-based), 0 if fewer buckets exist
func nthPar(ranked []rankedEntry, n int) (float64, string) {
	if len(ranked) < n {
		return 0, ""
	}
	return ranked[n-1].Par, ranked[n-1].Name
}

// topNPar sums the first n entries' par
func topNPar(ranked []rankedEntry, n int) float64 {
	var total float64
	for i := 0; i < n && i < len(ranked); i++ {
		total += ranked[i].Par
	}
	return total
}

// runSixthLargestObligor: test 3
// 레거시 quirk: 1st largest obligor(테스트 4) 결과는 이 루틴의 side effect로
// 방출되고 테스트 4 자체의 dispatch branch는 no-op이다.
func (e *Engine) runSixthLargestObligor(ctx *Context, spec TestSpec) {
	ranked := ctx.rankObligors()

	sixth, sixthName := nthPar(ranked, 6)
	ctx.emitRatio(spec, sixth, sixthName)

	// side effect: 테스트 4가 설정돼 있으면 1st largest 결과도 방출
	if firstSpec, ok := Spec(TestFirstLargestObligor); ok && ctx.configured(TestFirstLargestObligor) {
		first, firstName := nthPar(ranked, 1)
		ctx.emitRatio(firstSpec, first, firstName)
	}
}

// runLargestNonSnrSecObligor: test 5
// 모집단을 non-senior-secured 자산으로 제한한 obligor 랭킹
func (e *Engine) runLargestNonSnrSecObligor(ctx *Context, spec TestSpec) {
	ranked := ctx.rankBy(
		func(a *contracts.Asset) bool {
			return !a.IsDefaulted() && !e.cfg.IsSeniorSecuredLoan(a.SPPriorityCategory, a.IsLoan())
		},
		func(a *contracts.Asset) string { return a.ObligorKey() },
		func(a *contracts.Asset) string { return a.IssuerName },
	)
	par, name := nthPar(ranked, 1)
	ctx.emitRatio(spec, par, name)
}

// runLargestDIPObligor: test 6
// DIP 모집단은 부도 여부와 무관 (파산 후 여신)
func (e *Engine) runLargestDIPObligor(ctx *Context, spec TestSpec) {
	ranked := ctx.rankBy(
		func(a *contracts.Asset) bool { return a.DIP },
		func(a *contracts.Asset) string { return a.ObligorKey() },
		func(a *contracts.Asset) string { return a.IssuerName },
	)
	par, name := nthPar(ranked, 1)
	ctx.emitRatio(spec, par, name)
}

// runFiveLargestObligors: test 45, 상위 5개 합산 비중
func (e *Engine) runFiveLargestObligors(ctx *Context, spec TestSpec) {
	ranked := ctx.rankObligors()
	ctx.emitRatio(spec, topNPar(ranked, 5), fmt.Sprintf("%d obligors ranked", len(ranked)))
}

// runTenLargestObligors: test 51, 상위 10개 합산 비중
func (e *Engine) runTenLargestObligors(ctx *Context, spec TestSpec) {
	ranked := ctx.rankObligors()
	ctx.emitRatio(spec, topNPar(ranked, 10), fmt.Sprintf("%d obligors ranked", len(ranked)))
}

// runLargestAsset: test 54, 단일 포지션 최대 par
func (e *Engine) runLargestAsset(ctx *Context, spec TestSpec) {
	var largest *contracts.Asset
	for _, a := range ctx.Assets {
		if a.IsDefaulted() {
			continue
		}
		if largest == nil || a.ParAmount > largest.ParAmount ||
			(a.ParAmount == largest.ParAmount && a.AssetID < largest.AssetID) {
			largest = a
		}
	}

	if largest == nil {
		ctx.emitRatio(spec, 0, "")
		return
	}
	ctx.emitRatio(spec, largest.ParAmount, largest.AssetID)
}
