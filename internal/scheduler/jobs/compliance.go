package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adamchaz/clo-compliance/internal/compliance"
	"github.com/adamchaz/clo-compliance/pkg/logger"
)

// DealLister lists the deals in scope for the nightly batch
type DealLister interface {
	ListActiveDeals(ctx context.Context) ([]string, error)
}

// ComplianceJob runs the nightly compliance batch over every active deal
// ⭐ SSOT: 야간 배치 구성은 여기서만
type ComplianceJob struct {
	deals    DealLister
	service  *compliance.Service
	schedule string
	logger   *logger.Logger
}

// NewComplianceJob creates the nightly compliance job
func NewComplianceJob(deals DealLister, service *compliance.Service, schedule string, log *logger.Logger) *ComplianceJob {
	if schedule == "" {
		schedule = "0 0 2 * * *" // 매일 02:00
	}
	return &ComplianceJob{
		deals:    deals,
		service:  service,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ComplianceJob) Name() string {
	return "nightly-compliance"
}

// Schedule returns the cron schedule expression
func (j *ComplianceJob) Schedule() string {
	return j.schedule
}

// Run executes compliance for every active deal as of today.
// 딜 하나의 실패가 나머지 딜 실행을 막지 않는다.
func (j *ComplianceJob) Run(ctx context.Context) error {
	analysisDate := time.Now().UTC().Truncate(24 * time.Hour)

	dealIDs, err := j.deals.ListActiveDeals(ctx)
	if err != nil {
		return fmt.Errorf("list active deals: %w", err)
	}
	if len(dealIDs) == 0 {
		j.logger.Warn("no active deals for nightly compliance")
		return nil
	}

	var failed int
	for _, dealID := range dealIDs {
		report, err := j.service.Run(ctx, dealID, analysisDate)
		if err != nil {
			var pe *compliance.PersistenceError
			if errors.As(err, &pe) {
				// 계산은 끝났고 저장만 실패 — 다음 딜 계속
				j.logger.WithDeal(dealID).WithError(err).Error("nightly run not persisted")
				failed++
				continue
			}
			j.logger.WithDeal(dealID).WithError(err).Error("nightly run failed")
			failed++
			continue
		}

		if report.NoData {
			j.logger.WithDeal(dealID).Warn("nightly run skipped: no portfolio data")
			continue
		}

		j.logger.WithDeal(dealID).WithFields(map[string]interface{}{
			"failed_tests":     report.Summary.FailedTests,
			"compliance_score": report.Summary.ComplianceScore,
		}).Info("nightly run complete")
	}

	if failed > 0 {
		return fmt.Errorf("nightly compliance: %d of %d deals failed", failed, len(dealIDs))
	}
	return nil
}
