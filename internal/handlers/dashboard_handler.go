package handlers

import (
	"net/http"

	"cargo-backend/internal/monitoring"
	"cargo-backend/internal/services"
	"cargo-backend/pkg/utils"
)

type DashboardHandler struct {
	Service   *services.DashboardService
	Collector *monitoring.Collector
}

func NewDashboardHandler(service *services.DashboardService, collector *monitoring.Collector) *DashboardHandler {
	return &DashboardHandler{Service: service, Collector: collector}
}

func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetStats(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to retrieve dashboard stats")
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.Collector.Collect(r.Context()))
}
