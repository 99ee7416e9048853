package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/adamchaz/clo-compliance/internal/concentration"
	"github.com/adamchaz/clo-compliance/internal/contracts"
	"github.com/adamchaz/clo-compliance/pkg/logger"
)

// =============================================================================
// Compliance Service - 파이프라인 조립
// ⭐ SSOT: 로딩 → 임계치 해석 → 엔진 실행 → 집계 → 저장은 여기서만 엮는다
// =============================================================================

// SnapshotLoader loads deal portfolios
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, dealID string, analysisDate time.Time) (*contracts.DealSnapshot, error)
	GetDeal(ctx context.Context, dealID string) (*contracts.Deal, error)
}

// ThresholdResolver resolves effective thresholds per (deal, date)
type ThresholdResolver interface {
	Resolve(ctx context.Context, dealID string, asOf time.Time) (map[int]contracts.ResolvedThreshold, error)
}

// RunStore persists finished runs
type RunStore interface {
	SaveRun(ctx context.Context, summary contracts.ComplianceSummary, results []contracts.TestResult) error
}

// PersistenceError wraps a storage failure after a successful calculation.
// 계산 결과는 유효하므로 호출자에게 결과와 함께 반환된다.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("results calculated but not persisted: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// RunReport is the outcome of one compliance run
type RunReport struct {
	Summary contracts.ComplianceSummary `json:"summary"`
	Results []contracts.TestResult      `json:"results"`
	NoData  bool                        `json:"no_data,omitempty"`
}

// Service runs the end-to-end compliance pipeline for one deal/date
type Service struct {
	loader   SnapshotLoader
	resolver ThresholdResolver
	store    RunStore
	engine   *concentration.Engine
	log      *logger.Logger
}

// NewService creates a new Service instance. store may be nil (dry run).
func NewService(loader SnapshotLoader, resolver ThresholdResolver, store RunStore, engine *concentration.Engine, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if engine == nil {
		engine = concentration.NewEngine(concentration.DefaultConfig(), log)
	}
	return &Service{
		loader:   loader,
		resolver: resolver,
		store:    store,
		engine:   engine,
		log:      log,
	}
}

// Run executes every configured concentration test for a deal on a date.
// 저장 실패 시에도 계산 결과는 반환하고 *PersistenceError를 함께 돌려준다.
func (s *Service) Run(ctx context.Context, dealID string, analysisDate time.Time) (*RunReport, error) {
	log := s.log.WithDeal(dealID).WithField("analysis_date", analysisDate.Format("2006-01-02"))
	start := time.Now()

	deal, err := s.loader.GetDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("load deal: %w", err)
	}

	snapshot, err := s.loader.LoadSnapshot(ctx, dealID, analysisDate)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if snapshot.IsEmpty() {
		// 포지션이 없으면 테스트를 돌리지 않고 명시적 no-data 보고
		log.Warn("no portfolio positions for analysis date")
		return &RunReport{
			Summary: contracts.ComplianceSummary{
				DealID:       dealID,
				AnalysisDate: analysisDate,
				MagVersion:   deal.MagVersion,
				ExecutedAt:   time.Now().UTC(),
			},
			NoData: true,
		}, nil
	}

	thresholds, err := s.resolver.Resolve(ctx, dealID, analysisDate)
	if err != nil {
		return nil, fmt.Errorf("resolve thresholds: %w", err)
	}

	results := s.engine.Run(concentration.RunInput{
		Assets:            snapshot.Assets,
		PrincipalProceeds: snapshot.PrincipalProceeds,
		Thresholds:        thresholds,
		Inputs: concentration.TestInputs{
			StatedMaturity: deal.StatedMaturity,
		},
	})
	for i := range results {
		results[i].MagVersion = deal.MagVersion
	}

	summary := Aggregate(dealID, analysisDate, deal.MagVersion, results)

	log.WithFields(map[string]interface{}{
		"total_tests":  summary.TotalTests,
		"failed_tests": summary.FailedTests,
		"na_tests":     summary.NATests,
		"elapsed_ms":   time.Since(start).Milliseconds(),
	}).Info("compliance run complete")

	report := &RunReport{Summary: summary, Results: results}

	if s.store != nil {
		if err := s.store.SaveRun(ctx, summary, results); err != nil {
			log.WithError(err).Error("failed to persist compliance run")
			return report, &PersistenceError{Err: err}
		}
	}
	return report, nil
}
