package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/adamchaz/clo-compliance/internal/contracts"
	"github.com/adamchaz/clo-compliance/internal/thresholds"
	"github.com/adamchaz/clo-compliance/pkg/logger"
)

// ThresholdHandler handles threshold management API endpoints
// ⭐ SSOT: 임계치 API 핸들러는 이 구조체에서만
type ThresholdHandler struct {
	repo     *thresholds.Repository
	resolver *thresholds.Resolver
	logger   *logger.Logger
}

// NewThresholdHandler creates a new threshold handler
func NewThresholdHandler(repo *thresholds.Repository, resolver *thresholds.Resolver, log *logger.Logger) *ThresholdHandler {
	return &ThresholdHandler{
		repo:     repo,
		resolver: resolver,
		logger:   log,
	}
}

// ListDefinitions returns the active test definitions
// GET /api/tests
func (h *ThresholdHandler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defs, err := h.repo.ListDefinitions(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list test definitions")
		respondError(w, http.StatusInternalServerError, "Failed to list test definitions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tests": defs,
		"count": len(defs),
	})
}

// GetResolved returns the effective threshold set for a deal on a date
// GET /api/thresholds/{dealID}?date=YYYY-MM-DD
func (h *ThresholdHandler) GetResolved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealID := mux.Vars(r)["dealID"]

	asOf := time.Now().UTC()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	resolved, err := h.resolver.Resolve(ctx, dealID, asOf)
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve thresholds")
		respondError(w, http.StatusInternalServerError, "Failed to resolve thresholds")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deal_id":    dealID,
		"as_of":      asOf.Format("2006-01-02"),
		"thresholds": resolved,
	})
}

// ListOverrides returns every override row for a deal
// GET /api/thresholds/{dealID}/overrides
func (h *ThresholdHandler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealID := mux.Vars(r)["dealID"]

	overrides, err := h.repo.ListDealOverrides(ctx, dealID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list overrides")
		respondError(w, http.StatusInternalServerError, "Failed to list overrides")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deal_id":   dealID,
		"overrides": overrides,
	})
}

// OverrideRequest represents a threshold override write
type OverrideRequest struct {
	Value         float64 `json:"value"`          // fraction 테스트는 % 입력(7.5)도 허용
	EffectiveDate string  `json:"effective_date"` // YYYY-MM-DD
	ExpiryDate    string  `json:"expiry_date,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// PutOverride creates or updates a deal threshold override
// PUT /api/thresholds/{dealID}/{testNumber}
func (h *ThresholdHandler) PutOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	dealID := vars["dealID"]

	testNumber, err := strconv.Atoi(vars["testNumber"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "testNumber must be an integer")
		return
	}

	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	value, err := thresholds.NormalizeValue(testNumber, req.Value)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := thresholds.Validate(testNumber, value); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	effective := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EffectiveDate != "" {
		effective, err = time.Parse("2006-01-02", req.EffectiveDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "effective_date must be YYYY-MM-DD")
			return
		}
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
			return
		}
		if !parsed.After(effective) {
			respondError(w, http.StatusBadRequest, "expiry_date must be after effective_date")
			return
		}
		expiry = &parsed
	}

	testID, err := h.repo.TestIDByNumber(ctx, testNumber)
	if err != nil {
		if errors.Is(err, thresholds.ErrUnknownTest) {
			respondError(w, http.StatusNotFound, "Unknown test number")
			return
		}
		h.logger.WithError(err).Error("Failed to resolve test id")
		respondError(w, http.StatusInternalServerError, "Failed to resolve test")
		return
	}

	tc := &contracts.ThresholdConfiguration{
		DealID:         dealID,
		TestID:         testID,
		TestNumber:     testNumber,
		ThresholdValue: value,
		EffectiveDate:  effective,
		ExpiryDate:     expiry,
		Notes:          req.Notes,
	}
	if err := h.repo.UpsertOverride(ctx, tc); err != nil {
		h.logger.WithError(err).Error("Failed to upsert override")
		respondError(w, http.StatusInternalServerError, "Failed to save override")
		return
	}

	// 캐시된 (deal, *) 임계치 세트 전부 무효화
	if err := h.resolver.Invalidate(ctx, dealID); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate threshold cache")
	}

	respondJSON(w, http.StatusOK, tc)
}

// DeleteOverride removes one override row
// DELETE /api/thresholds/{dealID}/overrides/{id}
func (h *ThresholdHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	dealID := vars["dealID"]

	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	if err := h.repo.DeleteOverride(ctx, dealID, id); err != nil {
		if errors.Is(err, thresholds.ErrOverrideNotFound) {
			respondError(w, http.StatusNotFound, "Override not found")
			return
		}
		h.logger.WithError(err).Error("Failed to delete override")
		respondError(w, http.StatusInternalServerError, "Failed to delete override")
		return
	}

	if err := h.resolver.Invalidate(ctx, dealID); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate threshold cache")
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
