package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamchaz/clo-compliance/internal/concentration"
	"github.com/adamchaz/clo-compliance/internal/contracts"
)

type stubLoader struct {
	deal     *contracts.Deal
	snapshot *contracts.DealSnapshot
	err      error
}

func (s *stubLoader) GetDeal(ctx context.Context, dealID string) (*contracts.Deal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.deal, nil
}

func (s *stubLoader) LoadSnapshot(ctx context.Context, dealID string, analysisDate time.Time) (*contracts.DealSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

type stubResolver struct {
	thresholds map[int]contracts.ResolvedThreshold
}

func (s *stubResolver) Resolve(ctx context.Context, dealID string, asOf time.Time) (map[int]contracts.ResolvedThreshold, error) {
	return s.thresholds, nil
}

type stubStore struct {
	saved   bool
	summary contracts.ComplianceSummary
	results []contracts.TestResult
	err     error
}

func (s *stubStore) SaveRun(ctx context.Context, summary contracts.ComplianceSummary, results []contracts.TestResult) error {
	if s.err != nil {
		return s.err
	}
	s.saved = true
	s.summary = summary
	s.results = results
	return nil
}

func testSnapshot(dealID string) *contracts.DealSnapshot {
	return &contracts.DealSnapshot{
		DealID:       dealID,
		AnalysisDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Assets: map[string]*contracts.Asset{
			"A": {
				AssetID: "A", IssuerID: "1", IssuerName: "Alpha",
				BondLoan: contracts.AssetLoan, SPPriorityCategory: "SENIOR SECURED LOAN",
				Country: "USA", ParAmount: 950,
			},
			"B": {
				AssetID: "B", IssuerID: "2", IssuerName: "Beta",
				BondLoan: contracts.AssetLoan, Country: "CANADA", ParAmount: 50,
			},
		},
	}
}

func TestServiceRun(t *testing.T) {
	loader := &stubLoader{
		deal:     &contracts.Deal{DealID: "MAG17", MagVersion: "MAG17", Active: true},
		snapshot: testSnapshot("MAG17"),
	}
	resolver := &stubResolver{thresholds: concentration.DefaultThresholds()}
	store := &stubStore{}

	svc := NewService(loader, resolver, store, nil, nil)
	report, err := svc.Run(context.Background(), "MAG17", time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.False(t, report.NoData)

	// 54 configured numbers: 46 active rules plus 8 sibling side-effect results
	assert.Len(t, report.Results, 54)
	assert.Equal(t, 54, report.Summary.TotalTests)
	assert.Equal(t, "MAG17", report.Summary.MagVersion)

	for _, r := range report.Results {
		assert.Equal(t, "MAG17", r.MagVersion, "test %d", r.TestNumber)
	}

	assert.True(t, store.saved)
	assert.Equal(t, report.Summary, store.summary)
}

func TestServiceRunEmptyPortfolio(t *testing.T) {
	loader := &stubLoader{
		deal: &contracts.Deal{DealID: "MAG17", MagVersion: "MAG17"},
		snapshot: &contracts.DealSnapshot{
			DealID: "MAG17",
			Assets: map[string]*contracts.Asset{},
		},
	}
	store := &stubStore{}

	svc := NewService(loader, &stubResolver{}, store, nil, nil)
	report, err := svc.Run(context.Background(), "MAG17", time.Now())

	require.NoError(t, err)
	assert.True(t, report.NoData)
	assert.Empty(t, report.Results)
	assert.False(t, store.saved, "no-data runs are not persisted")
}

func TestServiceRunPersistenceFailure(t *testing.T) {
	loader := &stubLoader{
		deal:     &contracts.Deal{DealID: "MAG17", MagVersion: "MAG17"},
		snapshot: testSnapshot("MAG17"),
	}
	store := &stubStore{err: errors.New("connection reset")}

	svc := NewService(loader, &stubResolver{thresholds: concentration.DefaultThresholds()}, store, nil, nil)
	report, err := svc.Run(context.Background(), "MAG17", time.Now())

	// Calculation succeeded: results come back alongside the storage error
	require.Error(t, err)
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	require.NotNil(t, report)
	assert.Len(t, report.Results, 54)
}

func TestServiceRunLoaderFailure(t *testing.T) {
	loader := &stubLoader{err: errors.New("deal not found")}

	svc := NewService(loader, &stubResolver{}, nil, nil, nil)
	report, err := svc.Run(context.Background(), "NOPE", time.Now())

	require.Error(t, err)
	assert.Nil(t, report)
}
