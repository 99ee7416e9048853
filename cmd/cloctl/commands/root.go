package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cloctl",
	Short: "CLO 포트폴리오 집중도 컴플라이언스 엔진",
	Long: `CLO Compliance CLI

CLO 담보 포트폴리오에 대해 집중도 테스트 카탈로그를 실행하고
딜별 임계치 오버라이드를 관리합니다.

Usage:
  go run ./cmd/cloctl [command]

Examples:
  go run ./cmd/cloctl api
  go run ./cmd/cloctl run MAG17 --date 2025-06-30
  go run ./cmd/cloctl thresholds MAG17
  go run ./cmd/cloctl test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
