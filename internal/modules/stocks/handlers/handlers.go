// Package handlers provides HTTP handlers for the stock universe and price charts.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/internal/modules/stocks"
	"github.com/aristath/stockpulse/internal/server/response"
)

// Service is the part of the stocks service the handlers use
type Service interface {
	ListStocks(ctx context.Context) []domain.Stock
	GetChart(ctx context.Context, ticker string, window domain.TimeWindow, smaPeriod int) (*stocks.Chart, error)
}

// Handler handles stock HTTP requests
type Handler struct {
	service       Service
	defaultWindow domain.TimeWindow
	log           zerolog.Logger
}

// NewHandler creates a new stocks handler
func NewHandler(service Service, defaultWindow domain.TimeWindow, log zerolog.Logger) *Handler {
	return &Handler{
		service:       service,
		defaultWindow: defaultWindow,
		log:           log.With().Str("handler", "stocks").Logger(),
	}
}

// HandleListStocks handles GET /api/stocks
func (h *Handler) HandleListStocks(w http.ResponseWriter, r *http.Request) {
	list := h.service.ListStocks(r.Context())

	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"stocks": list,
		"count":  len(list),
	})
}

// HandleGetChart handles GET /api/stocks/{ticker}/chart
func (h *Handler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	window := h.defaultWindow
	if raw := r.URL.Query().Get("minutes"); raw != "" {
		parsed, err := domain.ParseTimeWindow(raw)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, err.Error(), h.log)
			return
		}
		window = parsed
	}

	smaPeriod := 0
	if raw := r.URL.Query().Get("sma"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(w, r, http.StatusBadRequest, "sma must be a non-negative integer", h.log)
			return
		}
		smaPeriod = parsed
	}

	chart, err := h.service.GetChart(r.Context(), ticker, window, smaPeriod)
	if err != nil {
		if errors.Is(err, stocks.ErrTickerRequired) || errors.Is(err, domain.ErrInvalidTimeWindow) {
			response.Error(w, r, http.StatusBadRequest, err.Error(), h.log)
			return
		}
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to build chart")
		response.Error(w, r, http.StatusServiceUnavailable, "Failed to build chart", h.log)
		return
	}

	h.writeJSON(w, r, http.StatusOK, chart)
}

// writeJSON writes a JSON response, or msgpack when the client asks for it
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	response.Write(w, r, status, data, h.log)
}
