package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/middleware"
	"github.com/eventgate/checkin-server-go/internal/service"
)

type RedemptionHandler struct {
	redemptionService *service.RedemptionService
}

func NewRedemptionHandler(redemptionService *service.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{redemptionService: redemptionService}
}

func (h *RedemptionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Redeem)

	return r
}

// POST /v1/redemptions
// Core API: validate a presented code and record it at most once.
func (h *RedemptionHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetScannerClaims(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req struct {
		Code      string `json:"code"`
		EventSlug string `json:"eventSlug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code is required"})
		return
	}
	if req.EventSlug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "eventSlug is required"})
		return
	}

	result, err := h.redemptionService.AttemptRedemption(r.Context(), req.Code, req.EventSlug, claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Info().
		Str("scannerId", claims.Subject).
		Str("eventSlug", req.EventSlug).
		Msg("redemption accepted")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      result.Message,
		"eventName":    result.EventName,
		"totalScanned": result.TotalScanned,
	})
}
