package jobs

import (
	"context"
	"fmt"

	"github.com/adamchaz/clo-compliance/pkg/database"
	"github.com/adamchaz/clo-compliance/pkg/logger"
)

// MaintenanceJob prunes old per-test execution rows.
// 요약 행은 보존하고 상세 실행 기록만 정리한다.
type MaintenanceJob struct {
	db            *database.DB
	retentionDays int
	logger        *logger.Logger
}

// NewMaintenanceJob creates the weekly retention job
func NewMaintenanceJob(db *database.DB, retentionDays int, log *logger.Logger) *MaintenanceJob {
	if retentionDays <= 0 {
		retentionDays = 365
	}
	return &MaintenanceJob{
		db:            db,
		retentionDays: retentionDays,
		logger:        log,
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "execution-retention"
}

// Schedule returns the cron schedule expression
func (j *MaintenanceJob) Schedule() string {
	return "0 30 3 * * 0" // 일요일 03:30
}

// Run deletes execution rows older than the retention window
func (j *MaintenanceJob) Run(ctx context.Context) error {
	tag, err := j.db.Pool.Exec(ctx,
		`DELETE FROM clo.test_executions
		 WHERE analysis_date < CURRENT_DATE - $1::int`,
		j.retentionDays,
	)
	if err != nil {
		return fmt.Errorf("prune test executions: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"deleted":        tag.RowsAffected(),
		"retention_days": j.retentionDays,
	}).Info("execution retention complete")
	return nil
}
