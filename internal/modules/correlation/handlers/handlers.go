// Package handlers provides HTTP handlers for correlation snapshots.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/internal/modules/correlation"
	"github.com/aristath/stockpulse/internal/server/response"
)

// Service is the part of the correlation service the handlers use
type Service interface {
	Current(ctx context.Context, window domain.TimeWindow, maxAge time.Duration) (*correlation.Snapshot, error)
	RefreshAndPublish(ctx context.Context, window domain.TimeWindow) (*correlation.Snapshot, error)
}

// Handler handles correlation HTTP requests
type Handler struct {
	service       Service
	defaultWindow domain.TimeWindow
	maxAge        time.Duration
	log           zerolog.Logger
}

// NewHandler creates a new correlation handler
func NewHandler(service Service, defaultWindow domain.TimeWindow, maxAge time.Duration, log zerolog.Logger) *Handler {
	return &Handler{
		service:       service,
		defaultWindow: defaultWindow,
		maxAge:        maxAge,
		log:           log.With().Str("handler", "correlation").Logger(),
	}
}

// HandleGetCorrelations handles GET /api/correlations
func (h *Handler) HandleGetCorrelations(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.Current(r.Context(), window, h.maxAge)
	if err != nil {
		h.refreshFailed(w, r, window, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, snapshot)
}

// HandleGetHeatmap handles GET /api/correlations/heatmap
func (h *Handler) HandleGetHeatmap(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.Current(r.Context(), window, h.maxAge)
	if err != nil {
		h.refreshFailed(w, r, window, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, correlation.BuildHeatmap(snapshot))
}

// HandleRefresh handles POST /api/correlations/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.RefreshAndPublish(r.Context(), window)
	if err != nil {
		h.refreshFailed(w, r, window, err)
		return
	}

	h.log.Info().
		Int("window", window.Minutes()).
		Uint64("generation", snapshot.Generation).
		Msg("Manual correlation refresh")

	h.writeJSON(w, r, http.StatusOK, snapshot)
}

func (h *Handler) parseWindow(w http.ResponseWriter, r *http.Request) (domain.TimeWindow, bool) {
	raw := r.URL.Query().Get("minutes")
	if raw == "" {
		return h.defaultWindow, true
	}

	window, err := domain.ParseTimeWindow(raw)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, err.Error(), h.log)
		return 0, false
	}
	return window, true
}

func (h *Handler) refreshFailed(w http.ResponseWriter, r *http.Request, window domain.TimeWindow, err error) {
	if errors.Is(err, domain.ErrInvalidTimeWindow) {
		response.Error(w, r, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	h.log.Error().Err(err).Int("window", window.Minutes()).Msg("Failed to refresh correlations")
	response.Error(w, r, http.StatusServiceUnavailable, "Failed to refresh correlations", h.log)
}

// writeJSON writes a JSON response, or msgpack when the client asks for it
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	response.Write(w, r, status, data, h.log)
}
