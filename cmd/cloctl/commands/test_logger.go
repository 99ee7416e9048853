package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamchaz/clo-compliance/pkg/config"
	"github.com/adamchaz/clo-compliance/pkg/logger"
)

// testLoggerCmd represents the test-logger command
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Logger 기능 테스트",
	Long: `구조화된 로깅 기능을 테스트합니다.

이 명령어는:
- JSON/Console 포맷 테스트
- 로그 레벨 테스트
- 구조화된 필드 로깅
- 에러 컨텍스트 로깅

Example:
  go run ./cmd/cloctl test-logger
  go run ./cmd/cloctl test-logger --env production`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CLO Compliance Logger Test ===")

	fmt.Println("1. JSON Format (Production)")
	fmt.Println("--------------------------------")
	testJSONFormat()
	fmt.Println()

	fmt.Println("2. Console Format (Development)")
	fmt.Println("--------------------------------")
	testConsoleFormat()
	fmt.Println()

	fmt.Println("3. Structured Logging with Fields")
	fmt.Println("--------------------------------")
	testStructuredLogging()
	fmt.Println()

	fmt.Println("4. Error Logging")
	fmt.Println("--------------------------------")
	testErrorLogging()
	fmt.Println()

	fmt.Println("✅ All logger tests completed!")
	return nil
}

func testJSONFormat() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)
	log.Info("Service started")
	log.Warn("High memory usage detected")
	log.Error("Failed to load portfolio snapshot")
}

func testConsoleFormat() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "console",
	}

	log := logger.New(cfg)
	log.Debug("Debugging application flow")
	log.Info("Request received from client")
	log.Warn("Cache miss, fetching from database")
}

func testStructuredLogging() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Single field
	dealLog := log.WithDeal("MAG17")
	dealLog.Info("Compliance run started")

	// Multiple fields
	runLog := log.WithFields(map[string]interface{}{
		"deal_id":       "MAG17",
		"analysis_date": "2025-03-31",
		"tests_passed":  39,
		"tests_failed":  7,
	})
	runLog.Info("Compliance run completed")

	// Chained fields
	log.WithField("module", "thresholds").
		WithField("test_number", 29).
		Info("Override applied")
}

func testErrorLogging() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Simple error
	err := errors.New("connection timeout")
	log.WithError(err).Error("Failed to load asset snapshot")

	// Error with context
	log.WithError(err).
		WithFields(map[string]interface{}{
			"retry_count":   3,
			"timeout_ms":    5000,
			"deal_id":       "MAG17",
			"analysis_date": "2025-03-31",
		}).
		Error("Compliance run failed after retries")
}
