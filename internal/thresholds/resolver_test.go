package thresholds

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamchaz/clo-compliance/internal/contracts"
)

type stubStore struct {
	defs      []contracts.TestDefinition
	overrides []contracts.ThresholdConfiguration
}

func (s *stubStore) ListDefinitions(ctx context.Context) ([]contracts.TestDefinition, error) {
	return s.defs, nil
}

func (s *stubStore) GetDealOverrides(ctx context.Context, dealID string, asOf time.Time) ([]contracts.ThresholdConfiguration, error) {
	// SQL 윈도우 필터 흉내
	var out []contracts.ThresholdConfiguration
	for _, o := range s.overrides {
		if o.DealID == dealID && o.EffectiveOn(asOf) {
			out = append(out, o)
		}
	}
	return out, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolverPrecedence(t *testing.T) {
	expiry := date(2025, 7, 1)
	store := &stubStore{
		defs: []contracts.TestDefinition{
			{ID: 1, TestNumber: 1, TestName: "Limitation on Senior Secured Loans", DefaultThreshold: 0.90, Active: true},
			{ID: 17, TestNumber: 17, TestName: "Limitation on Canada", DefaultThreshold: 0.125, Active: true},
		},
		overrides: []contracts.ThresholdConfiguration{
			{
				ID: 100, DealID: "MAG17", TestID: 1, TestNumber: 1,
				TestName:       "Limitation on Senior Secured Loans",
				ThresholdValue: 0.85,
				EffectiveDate:  date(2025, 1, 1),
				ExpiryDate:     &expiry,
			},
		},
	}

	r := NewResolver(store, nil, nil, 0)

	// Inside the override window: deal value wins
	resolved, err := r.Resolve(context.Background(), "MAG17", date(2025, 3, 15))
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	ss := resolved[1]
	assert.Equal(t, 0.85, ss.Value)
	assert.Equal(t, contracts.SourceDeal, ss.Source)
	assert.True(t, ss.IsCustomOverride)
	require.NotNil(t, ss.EffectiveDate)
	assert.Equal(t, date(2025, 1, 1), *ss.EffectiveDate)

	canada := resolved[17]
	assert.Equal(t, 0.125, canada.Value)
	assert.Equal(t, contracts.SourceDefault, canada.Source)
	assert.False(t, canada.IsCustomOverride)

	// On the expiry date the override no longer applies (exclusive bound)
	resolved, err = r.Resolve(context.Background(), "MAG17", expiry)
	require.NoError(t, err)
	assert.Equal(t, 0.90, resolved[1].Value)
	assert.Equal(t, contracts.SourceDefault, resolved[1].Source)

	// On the effective date it does (inclusive bound)
	resolved, err = r.Resolve(context.Background(), "MAG17", date(2025, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.85, resolved[1].Value)

	// A different deal sees only defaults
	resolved, err = r.Resolve(context.Background(), "MAG6", date(2025, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, contracts.SourceDefault, resolved[1].Source)
}

func TestResolverOverlappingWindowsLatestWins(t *testing.T) {
	store := &stubStore{
		defs: []contracts.TestDefinition{
			{ID: 17, TestNumber: 17, TestName: "Limitation on Canada", DefaultThreshold: 0.125, Active: true},
		},
		overrides: []contracts.ThresholdConfiguration{
			{
				ID: 1, DealID: "MAG17", TestID: 17, TestNumber: 17,
				ThresholdValue: 0.10, EffectiveDate: date(2025, 1, 1),
			},
			{
				ID: 2, DealID: "MAG17", TestID: 17, TestNumber: 17,
				ThresholdValue: 0.08, EffectiveDate: date(2025, 3, 1),
			},
		},
	}

	r := NewResolver(store, nil, nil, 0)
	resolved, err := r.Resolve(context.Background(), "MAG17", date(2025, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.08, resolved[17].Value, "later effective date takes precedence")
}

func TestResolverClampsCappedOverrides(t *testing.T) {
	store := &stubStore{
		defs: []contracts.TestDefinition{
			{ID: 3, TestNumber: 3, TestName: "Limitation on 6th Largest Obligor", DefaultThreshold: 0.02, Active: true},
		},
		overrides: []contracts.ThresholdConfiguration{
			// Legacy row written before cap validation existed
			{
				ID: 1, DealID: "MAG17", TestID: 3, TestNumber: 3,
				ThresholdValue: 0.20, EffectiveDate: date(2025, 1, 1),
			},
		},
	}

	r := NewResolver(store, nil, nil, 0)
	resolved, err := r.Resolve(context.Background(), "MAG17", date(2025, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.05, resolved[3].Value, "single-obligor overrides clamp to the cap")
	assert.Equal(t, contracts.SourceDeal, resolved[3].Source)
}

func TestResolveOneMissingIsNone(t *testing.T) {
	r := NewResolver(&stubStore{}, nil, nil, 0)

	rt, err := r.ResolveOne(context.Background(), "MAG17", 32, date(2025, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, contracts.SourceNone, rt.Source)
	assert.Zero(t, rt.Value)
}
