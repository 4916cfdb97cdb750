package server

import (
	"net/http"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/internal/server/response"
)

// WindowInfo describes one selectable time window
type WindowInfo struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "stockpulse",
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}

// handleWindows handles GET /api/windows
func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	defaultWindow := s.container.Config.DefaultWindow

	windows := make([]WindowInfo, 0, len(domain.AllTimeWindows()))
	for _, tw := range domain.AllTimeWindows() {
		windows = append(windows, WindowInfo{
			Minutes: tw.Minutes(),
			Label:   tw.Label(),
			Default: tw == defaultWindow,
		})
	}

	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"windows": windows,
		"default": defaultWindow.Minutes(),
	})
}

// writeJSON writes a JSON response, or msgpack when the client asks for it
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	response.Write(w, r, status, data, s.log)
}
