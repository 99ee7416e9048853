package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamchaz/clo-compliance/internal/contracts"
	"github.com/adamchaz/clo-compliance/internal/thresholds"
	"github.com/adamchaz/clo-compliance/pkg/config"
	"github.com/adamchaz/clo-compliance/pkg/database"
	"github.com/adamchaz/clo-compliance/pkg/logger"
)

// thresholdsCmd represents the thresholds command
var thresholdsCmd = &cobra.Command{
	Use:   "thresholds [dealID]",
	Short: "딜의 유효 임계치 조회/설정",
	Long: `딜의 유효 임계치 세트를 조회하거나 오버라이드를 설정합니다.

조회는 (오버라이드 > 기본값) 우선순위로 해석된 유효 값을 보여줍니다.

Example:
  go run ./cmd/cloctl thresholds MAG17
  go run ./cmd/cloctl thresholds MAG17 --date 2025-06-30
  go run ./cmd/cloctl thresholds MAG17 --set 17 --value 0.10 --effective 2025-07-01`,
	Args: cobra.ExactArgs(1),
	RunE: runThresholds,
}

var (
	thresholdDate      string
	thresholdSetTest   int
	thresholdValue     float64
	thresholdEffective string
	thresholdExpiry    string
	thresholdNotes     string
)

func init() {
	rootCmd.AddCommand(thresholdsCmd)

	thresholdsCmd.Flags().StringVar(&thresholdDate, "date", "", "기준일 (YYYY-MM-DD, 기본: 오늘)")
	thresholdsCmd.Flags().IntVar(&thresholdSetTest, "set", 0, "오버라이드할 테스트 번호")
	thresholdsCmd.Flags().Float64Var(&thresholdValue, "value", 0, "임계치 값 (fraction 테스트는 % 입력 허용)")
	thresholdsCmd.Flags().StringVar(&thresholdEffective, "effective", "", "발효일 (YYYY-MM-DD, 기본: 오늘)")
	thresholdsCmd.Flags().StringVar(&thresholdExpiry, "expiry", "", "만료일 (YYYY-MM-DD, 미지정 시 무기한)")
	thresholdsCmd.Flags().StringVar(&thresholdNotes, "notes", "", "오버라이드 사유 메모")
}

func runThresholds(cmd *cobra.Command, args []string) error {
	dealID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if thresholdDate != "" {
		asOf, err = time.Parse("2006-01-02", thresholdDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := thresholds.NewRepository(db.Pool)
	resolver := thresholds.NewResolver(repo, nil, log, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if thresholdSetTest > 0 {
		return setOverride(ctx, repo, dealID)
	}

	resolved, err := resolver.Resolve(ctx, dealID, asOf)
	if err != nil {
		return fmt.Errorf("resolve thresholds: %w", err)
	}

	numbers := make([]int, 0, len(resolved))
	for n := range resolved {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	fmt.Printf("=== Effective Thresholds: %s @ %s ===\n\n", dealID, asOf.Format("2006-01-02"))
	for _, n := range numbers {
		rt := resolved[n]
		marker := " "
		if rt.IsCustomOverride {
			marker = "*"
		}
		fmt.Printf("%s [%2d] %-55s %.4f (%s)\n", marker, rt.TestNumber, rt.TestName, rt.Value, rt.Source)
	}
	fmt.Println("\n(* = deal override)")
	return nil
}

func setOverride(ctx context.Context, repo *thresholds.Repository, dealID string) error {
	value, err := thresholds.NormalizeValue(thresholdSetTest, thresholdValue)
	if err != nil {
		return err
	}
	if err := thresholds.Validate(thresholdSetTest, value); err != nil {
		return err
	}

	effective := time.Now().UTC().Truncate(24 * time.Hour)
	if thresholdEffective != "" {
		effective, err = time.Parse("2006-01-02", thresholdEffective)
		if err != nil {
			return fmt.Errorf("invalid --effective: %w", err)
		}
	}

	var expiry *time.Time
	if thresholdExpiry != "" {
		parsed, err := time.Parse("2006-01-02", thresholdExpiry)
		if err != nil {
			return fmt.Errorf("invalid --expiry: %w", err)
		}
		if !parsed.After(effective) {
			return fmt.Errorf("--expiry must be after --effective")
		}
		expiry = &parsed
	}

	testID, err := repo.TestIDByNumber(ctx, thresholdSetTest)
	if err != nil {
		return err
	}

	tc := &contracts.ThresholdConfiguration{
		DealID:         dealID,
		TestID:         testID,
		TestNumber:     thresholdSetTest,
		ThresholdValue: value,
		EffectiveDate:  effective,
		ExpiryDate:     expiry,
		Notes:          thresholdNotes,
	}
	if err := repo.UpsertOverride(ctx, tc); err != nil {
		return err
	}

	fmt.Printf("✅ Override saved: deal=%s test=%d value=%.4f effective=%s\n",
		dealID, thresholdSetTest, value, effective.Format("2006-01-02"))
	return nil
}
