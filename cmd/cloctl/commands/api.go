package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/adamchaz/clo-compliance/internal/api"
	"github.com/adamchaz/clo-compliance/internal/api/handlers"
	"github.com/adamchaz/clo-compliance/internal/assets"
	"github.com/adamchaz/clo-compliance/internal/compliance"
	"github.com/adamchaz/clo-compliance/internal/concentration"
	"github.com/adamchaz/clo-compliance/internal/thresholds"
	"github.com/adamchaz/clo-compliance/pkg/config"
	"github.com/adamchaz/clo-compliance/pkg/database"
	"github.com/adamchaz/clo-compliance/pkg/logger"
	"github.com/adamchaz/clo-compliance/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 컴플라이언스 실행/조회 엔드포인트 제공
- 딜별 임계치 오버라이드 관리 제공

Endpoints:
  GET    /health
  POST   /api/compliance/{dealID}/run
  GET    /api/compliance/{dealID}?date=YYYY-MM-DD
  GET    /api/compliance/{dealID}/summaries
  GET    /api/tests
  GET    /api/thresholds/{dealID}
  GET    /api/thresholds/{dealID}/overrides
  PUT    /api/thresholds/{dealID}/{testNumber}
  DELETE /api/thresholds/{dealID}/overrides/{id}

Example:
  go run ./cmd/cloctl api
  go run ./cmd/cloctl api --port 8091`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: config PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CLO Compliance API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to database")

	// 4. Connect to Redis (비활성화 시 no-op 캐시)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "clo")

	// 5. Create repositories
	assetRepo := assets.NewRepository(db.Pool)
	thresholdRepo := thresholds.NewRepository(db.Pool)
	runRepo := compliance.NewRepository(db)

	// 6. Create resolver and engine
	resolver := thresholds.NewResolver(thresholdRepo, cache, log, cfg.Compliance.ThresholdCacheTTL)
	engine := concentration.NewEngine(concentration.DefaultConfig(), log)

	// 7. Create service
	service := compliance.NewService(assetRepo, resolver, runRepo, engine, log)

	// 8. Create handlers
	complianceHandler := handlers.NewComplianceHandler(service, runRepo, log)
	thresholdHandler := handlers.NewThresholdHandler(thresholdRepo, resolver, log)

	// 9. Create router with write rate limiter
	writeLimiter := rate.NewLimiter(rate.Limit(cfg.Compliance.WriteRateLimit), cfg.Compliance.WriteRateBurst)
	router := api.NewRouter(complianceHandler, thresholdHandler, writeLimiter, log)

	// 10. Create server
	server := api.New(cfg, log, router)

	// 11. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
