package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all correlation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/correlations", func(r chi.Router) {
		r.Get("/", h.HandleGetCorrelations)
		r.Get("/heatmap", h.HandleGetHeatmap)
		r.Post("/refresh", h.HandleRefresh)
	})
}
