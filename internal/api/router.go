package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/adamchaz/clo-compliance/internal/api/handlers"
	"github.com/adamchaz/clo-compliance/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	complianceHandler *handlers.ComplianceHandler,
	thresholdHandler *handlers.ThresholdHandler,
	writeLimiter *rate.Limiter,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Compliance endpoints
	api.HandleFunc("/compliance/{dealID}/run", complianceHandler.Run).Methods("POST")
	api.HandleFunc("/compliance/{dealID}", complianceHandler.GetRun).Methods("GET")
	api.HandleFunc("/compliance/{dealID}/summaries", complianceHandler.ListSummaries).Methods("GET")

	// Threshold endpoints
	api.HandleFunc("/tests", thresholdHandler.ListDefinitions).Methods("GET")
	api.HandleFunc("/thresholds/{dealID}", thresholdHandler.GetResolved).Methods("GET")
	api.HandleFunc("/thresholds/{dealID}/overrides", thresholdHandler.ListOverrides).Methods("GET")
	api.HandleFunc("/thresholds/{dealID}/{testNumber}", thresholdHandler.PutOverride).Methods("PUT")
	api.HandleFunc("/thresholds/{dealID}/overrides/{id}", thresholdHandler.DeleteOverride).Methods("DELETE")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(writeRateLimitMiddleware(writeLimiter, log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "clo-compliance-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeRateLimitMiddleware throttles mutating requests.
// 임계치 쓰기 폭주로 캐시 무효화가 연쇄되는 것을 막는다.
func writeRateLimitMiddleware(limiter *rate.Limiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil {
				switch r.Method {
				case http.MethodPut, http.MethodPost, http.MethodDelete:
					if !limiter.Allow() {
						log.WithField("path", r.URL.Path).Warn("write rate limit exceeded")
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusTooManyRequests)
						json.NewEncoder(w).Encode(map[string]string{
							"error": "Too many write requests",
						})
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
