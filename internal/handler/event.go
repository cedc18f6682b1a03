package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/service"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{slug}", h.Get)
	r.Patch("/{slug}", h.Update)
	r.Delete("/{slug}", h.Delete)
	r.Get("/{slug}/stats", h.Stats)

	return r
}

func (h *EventHandler) PatternRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/generate", h.GeneratePattern)
	r.Post("/validate", h.ValidatePattern)

	return r
}

func (h *EventHandler) InviteRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/total", h.TotalScanned)

	return r
}

// GET /v1/events?active=true
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	events, err := h.eventService.List(r.Context(), activeOnly)
	if err != nil {
		log.Error().Err(err).Msg("failed to list events")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  len(events),
	})
}

// POST /v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	event, err := h.eventService.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// GET /v1/events/{slug}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	event, err := h.eventService.GetBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// PATCH /v1/events/{slug}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var input service.UpdateEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	event, err := h.eventService.Update(r.Context(), slug, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// DELETE /v1/events/{slug}?permanent=true
// Default is a soft delete (deactivation).
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	permanent := r.URL.Query().Get("permanent") == "true"

	event, err := h.eventService.Delete(r.Context(), slug, permanent)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"permanent": permanent,
		"event":     event,
	})
}

// GET /v1/events/{slug}/stats
func (h *EventHandler) Stats(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	stats, err := h.eventService.Stats(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// GET /v1/invites/total
func (h *EventHandler) TotalScanned(w http.ResponseWriter, r *http.Request) {
	total, err := h.eventService.TotalScanned(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to count redemptions")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"totalScanned": total})
}

// POST /v1/patterns/generate
func (h *EventHandler) GeneratePattern(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prefix string `json:"prefix"`
		Count  int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.Prefix == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prefix is required"})
		return
	}
	if req.Count < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "count must be at least 1"})
		return
	}

	pattern := h.eventService.GenerateCodeSpace(req.Prefix, req.Count)

	writeJSON(w, http.StatusOK, map[string]any{
		"pattern": pattern,
		"prefix":  req.Prefix,
		"count":   req.Count,
	})
}

// POST /v1/patterns/validate
func (h *EventHandler) ValidatePattern(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pattern string `json:"pattern"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := h.eventService.ValidatePattern(req.Pattern); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}
