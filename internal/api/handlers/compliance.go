package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/adamchaz/clo-compliance/internal/assets"
	"github.com/adamchaz/clo-compliance/internal/compliance"
	"github.com/adamchaz/clo-compliance/pkg/logger"
)

// ComplianceHandler handles compliance run API endpoints
// ⭐ SSOT: 컴플라이언스 API 핸들러는 이 구조체에서만
type ComplianceHandler struct {
	service *compliance.Service
	runRepo *compliance.Repository
	logger  *logger.Logger
}

// NewComplianceHandler creates a new compliance handler
func NewComplianceHandler(service *compliance.Service, runRepo *compliance.Repository, log *logger.Logger) *ComplianceHandler {
	return &ComplianceHandler{
		service: service,
		runRepo: runRepo,
		logger:  log,
	}
}

// RunRequest represents a compliance run request
type RunRequest struct {
	AnalysisDate string `json:"analysis_date"` // YYYY-MM-DD, 생략 시 오늘
}

// Run executes a compliance run for a deal
// POST /api/compliance/{dealID}/run
func (h *ComplianceHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealID := mux.Vars(r)["dealID"]

	var req RunRequest
	if r.Body != nil {
		// body 없는 POST 허용 (오늘 날짜 실행)
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	analysisDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.AnalysisDate != "" {
		parsed, err := time.Parse("2006-01-02", req.AnalysisDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "analysis_date must be YYYY-MM-DD")
			return
		}
		analysisDate = parsed
	}

	report, err := h.service.Run(ctx, dealID, analysisDate)
	if err != nil {
		var pe *compliance.PersistenceError
		if errors.As(err, &pe) {
			// 계산은 성공 — 결과 반환하되 저장 실패를 알림
			h.logger.WithError(err).Error("Compliance run not persisted")
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"report":  report,
				"warning": "results calculated but not persisted",
			})
			return
		}
		if errors.Is(err, assets.ErrDealNotFound) {
			respondError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.WithError(err).Error("Compliance run failed")
		respondError(w, http.StatusInternalServerError, "Compliance run failed")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetRun returns a stored compliance run
// GET /api/compliance/{dealID}?date=YYYY-MM-DD
func (h *ComplianceHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealID := mux.Vars(r)["dealID"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		respondError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	analysisDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	summary, results, err := h.runRepo.GetRun(ctx, dealID, analysisDate)
	if err != nil {
		if errors.Is(err, compliance.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, "No compliance run for that date")
			return
		}
		h.logger.WithError(err).Error("Failed to load compliance run")
		respondError(w, http.StatusInternalServerError, "Failed to load compliance run")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
		"results": results,
	})
}

// ListSummaries returns recent compliance summaries for a deal
// GET /api/compliance/{dealID}/summaries?limit=30
func (h *ComplianceHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealID := mux.Vars(r)["dealID"]

	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	summaries, err := h.runRepo.ListSummaries(ctx, dealID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list summaries")
		respondError(w, http.StatusInternalServerError, "Failed to list summaries")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deal_id":   dealID,
		"summaries": summaries,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
