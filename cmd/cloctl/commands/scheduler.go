package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adamchaz/clo-compliance/internal/assets"
	"github.com/adamchaz/clo-compliance/internal/compliance"
	"github.com/adamchaz/clo-compliance/internal/concentration"
	"github.com/adamchaz/clo-compliance/internal/scheduler"
	"github.com/adamchaz/clo-compliance/internal/scheduler/jobs"
	"github.com/adamchaz/clo-compliance/internal/thresholds"
	"github.com/adamchaz/clo-compliance/pkg/config"
	"github.com/adamchaz/clo-compliance/pkg/database"
	"github.com/adamchaz/clo-compliance/pkg/logger"
	"github.com/adamchaz/clo-compliance/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러 데몬을 시작합니다.

등록되는 작업:
- nightly-compliance: 매일 02:00 (활성 딜 전체 컴플라이언스 실행)
- execution-retention: 일요일 03:30 (오래된 실행 기록 정리)

스케줄러는 Ctrl+C로 종료할 수 있습니다.

Example:
  go run ./cmd/cloctl scheduler start
  go run ./cmd/cloctl scheduler run nightly-compliance`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func initScheduler() (*scheduler.Scheduler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "clo")

	assetRepo := assets.NewRepository(db.Pool)
	thresholdRepo := thresholds.NewRepository(db.Pool)
	resolver := thresholds.NewResolver(thresholdRepo, cache, log, cfg.Compliance.ThresholdCacheTTL)
	engine := concentration.NewEngine(concentration.DefaultConfig(), log)
	service := compliance.NewService(assetRepo, resolver, compliance.NewRepository(db), engine, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewComplianceJob(assetRepo, service, cfg.Scheduler.CronSpec, log)); err != nil {
		db.Close()
		redisClient.Close()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewMaintenanceJob(db, 365, log)); err != nil {
		db.Close()
		redisClient.Close()
		return nil, nil, err
	}

	cleanup := func() {
		redisClient.Close()
		db.Close()
	}
	return sched, cleanup, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CLO Compliance Scheduler ===")

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	fmt.Printf("Running job %s...\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	history, err := sched.GetJobHistory(jobName)
	if err == nil {
		if results := history.GetLatestResults(1); len(results) > 0 {
			r := results[0]
			if r.Success {
				fmt.Printf("✅ Job completed in %s\n", r.Duration)
			} else {
				fmt.Printf("❌ Job failed after %s: %s\n", r.Duration, r.Error)
			}
		}
	}
	return nil
}
