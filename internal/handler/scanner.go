package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/service"
)

type ScannerHandler struct {
	scannerService *service.ScannerService
}

func NewScannerHandler(scannerService *service.ScannerService) *ScannerHandler {
	return &ScannerHandler{scannerService: scannerService}
}

func (h *ScannerHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/assignments", h.Assign)
	r.Delete("/assignments", h.Unassign)

	return r
}

// GET /v1/scanners?event={slug}
func (h *ScannerHandler) List(w http.ResponseWriter, r *http.Request) {
	eventSlug := r.URL.Query().Get("event")

	scanners, err := h.scannerService.List(r.Context(), eventSlug)
	if err != nil {
		log.Error().Err(err).Msg("failed to list scanners")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scanners": scanners,
		"total":    len(scanners),
	})
}

// POST /v1/scanners
func (h *ScannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateScannerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	scanner, err := h.scannerService.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, scanner)
}

// PATCH /v1/scanners/{id}
func (h *ScannerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input service.UpdateScannerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	scanner, err := h.scannerService.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scanner)
}

// DELETE /v1/scanners/{id}
func (h *ScannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.scannerService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /v1/scanners/assignments
func (h *ScannerHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScannerID  string   `json:"scannerId"`
		EventSlugs []string `json:"eventSlugs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.ScannerID == "" || len(req.EventSlugs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scannerId and eventSlugs are required"})
		return
	}

	assignments, err := h.scannerService.Assign(r.Context(), req.ScannerID, req.EventSlugs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// DELETE /v1/scanners/assignments
func (h *ScannerHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScannerID  string   `json:"scannerId"`
		EventSlugs []string `json:"eventSlugs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.ScannerID == "" || len(req.EventSlugs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scannerId and eventSlugs are required"})
		return
	}

	if err := h.scannerService.Unassign(r.Context(), req.ScannerID, req.EventSlugs); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /v1/scanners/login
// Open endpoint behind the per-IP login limiter.
func (h *ScannerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	result, err := h.scannerService.Login(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
