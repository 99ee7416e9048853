package thresholds

import (
	"context"
	"time"

	"github.com/adamchaz/clo-compliance/internal/concentration"
	"github.com/adamchaz/clo-compliance/internal/contracts"
	"github.com/adamchaz/clo-compliance/pkg/logger"
	"github.com/adamchaz/clo-compliance/pkg/redis"
)

// =============================================================================
// Threshold Resolver
// ⭐ SSOT: (deal, test, date) 유효 임계치 해석은 여기서만
// 우선순위: 딜 오버라이드 (윈도우 내) > 테스트 정의 기본값 > 카탈로그 기본값
// =============================================================================

// Store is the persistence surface the resolver needs
type Store interface {
	ListDefinitions(ctx context.Context) ([]contracts.TestDefinition, error)
	GetDealOverrides(ctx context.Context, dealID string, asOf time.Time) ([]contracts.ThresholdConfiguration, error)
}

// Resolver resolves effective thresholds with a Redis read-through cache
type Resolver struct {
	store Store
	cache *redis.Cache
	log   *logger.Logger
	ttl   time.Duration
}

// NewResolver creates a new Resolver. cache may be nil (no caching).
func NewResolver(store Store, cache *redis.Cache, log *logger.Logger, ttl time.Duration) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = redis.TTLMedium
	}
	return &Resolver{store: store, cache: cache, log: log, ttl: ttl}
}

// Resolve returns the effective threshold set for a deal on an analysis date,
// keyed by test number. 결과에는 active 정의 + 오버라이드된 테스트만 포함된다.
func (r *Resolver) Resolve(ctx context.Context, dealID string, asOf time.Time) (map[int]contracts.ResolvedThreshold, error) {
	dateKey := asOf.Format("2006-01-02")
	cacheKey := redis.ThresholdSetKey(dealID, dateKey)

	if r.cache != nil {
		var cached map[int]contracts.ResolvedThreshold
		hit, err := r.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			r.log.WithError(err).Warn("threshold cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	resolved, err := r.resolveFromStore(ctx, dealID, asOf)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, resolved, r.ttl); err != nil {
			r.log.WithError(err).Warn("threshold cache write failed")
		}
	}
	return resolved, nil
}

func (r *Resolver) resolveFromStore(ctx context.Context, dealID string, asOf time.Time) (map[int]contracts.ResolvedThreshold, error) {
	defs, err := r.store.ListDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make(map[int]contracts.ResolvedThreshold, len(defs))
	for _, d := range defs {
		resolved[d.TestNumber] = contracts.ResolvedThreshold{
			TestID:     d.ID,
			TestNumber: d.TestNumber,
			TestName:   d.TestName,
			Value:      d.DefaultThreshold,
			Source:     contracts.SourceDefault,
		}
	}

	overrides, err := r.store.GetDealOverrides(ctx, dealID, asOf)
	if err != nil {
		return nil, err
	}

	for i := range overrides {
		o := overrides[i]
		if !o.EffectiveOn(asOf) {
			// SQL 윈도우 필터와 이중 방어
			continue
		}

		value := o.ThresholdValue
		if spec, ok := concentration.Spec(concentration.TestNumber(o.TestNumber)); ok {
			// 단일 obligor 상한: 쓰기 검증을 우회한 레거시 행도 캡 적용
			if spec.CapOverride > 0 && value > spec.CapOverride {
				r.log.WithFields(map[string]interface{}{
					"deal_id":     dealID,
					"test_number": o.TestNumber,
					"value":       value,
				}).Warnf("override exceeds cap %v, clamping", spec.CapOverride)
				value = spec.CapOverride
			}
		}

		eff := o.EffectiveDate
		rt := contracts.ResolvedThreshold{
			TestID:           o.TestID,
			TestNumber:       o.TestNumber,
			TestName:         o.TestName,
			Value:            value,
			Source:           contracts.SourceDeal,
			IsCustomOverride: true,
			EffectiveDate:    &eff,
		}

		// 같은 테스트에 윈도우가 겹치는 행이 여럿이면 effective_date 최신 행이 이김
		if prev, ok := resolved[o.TestNumber]; ok && prev.Source == contracts.SourceDeal &&
			prev.EffectiveDate != nil && prev.EffectiveDate.After(eff) {
			continue
		}
		resolved[o.TestNumber] = rt
	}

	return resolved, nil
}

// ResolveOne returns the effective threshold for a single test number.
// 정의에도 오버라이드에도 없으면 (0, none) — 엔진이 N/A로 처리.
func (r *Resolver) ResolveOne(ctx context.Context, dealID string, testNumber int, asOf time.Time) (contracts.ResolvedThreshold, error) {
	all, err := r.Resolve(ctx, dealID, asOf)
	if err != nil {
		return contracts.ResolvedThreshold{}, err
	}
	rt, ok := all[testNumber]
	if !ok {
		return contracts.ResolvedThreshold{
			TestNumber: testNumber,
			Source:     contracts.SourceNone,
		}, nil
	}
	return rt, nil
}

// Invalidate drops every cached threshold set for a deal.
// 오버라이드 쓰기/삭제 후 호출.
func (r *Resolver) Invalidate(ctx context.Context, dealID string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.DeletePattern(ctx, redis.ThresholdDealPattern(dealID))
}
