package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamchaz/clo-compliance/internal/assets"
	"github.com/adamchaz/clo-compliance/internal/compliance"
	"github.com/adamchaz/clo-compliance/internal/concentration"
	"github.com/adamchaz/clo-compliance/internal/contracts"
	"github.com/adamchaz/clo-compliance/internal/thresholds"
	"github.com/adamchaz/clo-compliance/pkg/config"
	"github.com/adamchaz/clo-compliance/pkg/database"
	"github.com/adamchaz/clo-compliance/pkg/logger"
	"github.com/adamchaz/clo-compliance/pkg/redis"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [dealID]",
	Short: "딜 하나의 집중도 테스트 실행",
	Long: `지정한 딜에 대해 전체 집중도 테스트 카탈로그를 실행합니다.

이 명령어는:
- 분석일 기준 포트폴리오 스냅샷 로드
- 딜별 임계치 해석 (오버라이드 > 기본값)
- 테스트 실행 및 결과 저장
- PASS/FAIL 요약 출력

Example:
  go run ./cmd/cloctl run MAG17
  go run ./cmd/cloctl run MAG17 --date 2025-06-30
  go run ./cmd/cloctl run MAG17 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runCompliance,
}

var (
	runDate   string
	runDryRun bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "분석일 (YYYY-MM-DD, 기본: 오늘)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "결과를 저장하지 않고 출력만")
}

func runCompliance(cmd *cobra.Command, args []string) error {
	dealID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	analysisDate := time.Now().UTC().Truncate(24 * time.Hour)
	if runDate != "" {
		analysisDate, err = time.Parse("2006-01-02", runDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "clo")

	assetRepo := assets.NewRepository(db.Pool)
	thresholdRepo := thresholds.NewRepository(db.Pool)
	resolver := thresholds.NewResolver(thresholdRepo, cache, log, cfg.Compliance.ThresholdCacheTTL)
	engine := concentration.NewEngine(concentration.DefaultConfig(), log)

	var store compliance.RunStore
	if !runDryRun {
		store = compliance.NewRepository(db)
	}
	service := compliance.NewService(assetRepo, resolver, store, engine, log)

	fmt.Printf("=== Compliance Run: %s @ %s ===\n\n", dealID, analysisDate.Format("2006-01-02"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := service.Run(ctx, dealID, analysisDate)
	if err != nil {
		var pe *compliance.PersistenceError
		if !errors.As(err, &pe) {
			return err
		}
		fmt.Printf("⚠️  %v\n\n", err)
	}

	if report.NoData {
		fmt.Println("포트폴리오 데이터 없음 — 테스트 미실행")
		return nil
	}

	printReport(report)
	return nil
}

func printReport(report *compliance.RunReport) {
	for _, r := range report.Results {
		marker := "✅"
		switch r.PassFail {
		case contracts.ResultFail:
			marker = "❌"
		case contracts.ResultNA:
			marker = "➖"
		}
		fmt.Printf("%s [%2d] %-55s result=%.4f threshold=%.4f %s\n",
			marker, r.TestNumber, r.TestName, r.Result, r.Threshold, r.PassFail)
	}

	s := report.Summary
	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Tests: %d  Pass: %d  Fail: %d  N/A: %d\n", s.TotalTests, s.PassedTests, s.FailedTests, s.NATests)
	fmt.Printf("Compliance score: %.1f%%\n", s.ComplianceScore*100)
	if s.FailedTests > 0 {
		fmt.Printf("Worst: [%d] %s (excess %.2f)\n", s.WorstTestNumber, s.WorstTestName, s.WorstExcess)
	}
}
