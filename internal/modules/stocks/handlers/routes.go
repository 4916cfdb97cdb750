package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all stock routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stocks", func(r chi.Router) {
		r.Get("/", h.HandleListStocks)
		r.Get("/{ticker}/chart", h.HandleGetChart)
	})
}
