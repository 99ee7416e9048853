package concentration

import (
	"fmt"
)

// =============================================================================
// Moody's Diversity Score - test 52
//
// Equivalent-unit method:
//  1. 평균 obligor par = 총 par / obligor 수
//  2. obligor별 equivalent unit = min(1, obligor par / 평균 par)
//  3. Moody's 산업별 equivalent unit 합산
//  4. diversityTable 보간으로 산업별 점수 산출, 합계가 diversity score
// =============================================================================

// runDiversityScore: test 52
func (e *Engine) runDiversityScore(ctx *Context, spec TestSpec) {
	// obligor별 par 집계 (defaulted 제외), 산업은 obligor의 최대 par 자산 기준
	type obligorBucket struct {
		par      float64
		industry string
		maxPar   float64
	}
	obligors := make(map[string]*obligorBucket)

	for _, a := range ctx.Assets {
		if a.IsDefaulted() || a.ParAmount <= 0 {
			continue
		}
		key := a.ObligorKey()
		bucket, ok := obligors[key]
		if !ok {
			bucket = &obligorBucket{}
			obligors[key] = bucket
		}
		bucket.par += a.ParAmount
		if a.ParAmount > bucket.maxPar {
			bucket.maxPar = a.ParAmount
			bucket.industry = a.MdyIndustry
			if bucket.industry == "" {
				bucket.industry = unclassifiedIndustry
			}
		}
	}

	if len(obligors) == 0 {
		ctx.emitValue(spec, 0, 0, 0, "no performing assets")
		return
	}

	var totalPar float64
	for _, bucket := range obligors {
		totalPar += bucket.par
	}
	averagePar := totalPar / float64(len(obligors))

	// 산업별 equivalent unit 합산
	industryUnits := make(map[string]float64)
	for _, bucket := range obligors {
		unit := bucket.par / averagePar
		if unit > 1 {
			unit = 1
		}
		industryUnits[bucket.industry] += unit
	}

	var score float64
	for _, units := range industryUnits {
		score += industryDiversityScore(units)
	}

	comments := fmt.Sprintf("%d obligors across %d industries", len(obligors), len(industryUnits))
	ctx.emitValue(spec, score, score, 1, comments)
}
