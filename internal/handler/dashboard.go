package handler

import (
	"log/slog"
	"net/http"

	"github.com/avelan/rationd/internal/store"
)

type DashboardHandler struct {
	store  *store.DashboardStore
	logger *slog.Logger
}

func NewDashboardHandler(s *store.DashboardStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{store: s, logger: logger}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		h.logger.Error("dashboard stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
