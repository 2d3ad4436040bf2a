package handlers

import (
	"net/http"

	"github.com/bramley-breezers/club-records/services"
)

type MaintenanceHandler struct {
	maintenanceService services.MaintenanceService
	cacheService       services.CacheService
}

func NewMaintenanceHandler(maintenanceService services.MaintenanceService, cacheService services.CacheService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService, cacheService: cacheService}
}

func (h *MaintenanceHandler) RepairDuplicates(w http.ResponseWriter, r *http.Request) {
	stats, err := h.maintenanceService.RepairDuplicates(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"repair": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MaintenanceHandler) ClearPendingQueues(w http.ResponseWriter, r *http.Request) {
	if err := h.maintenanceService.ClearPendingQueues(r.Context()); err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MaintenanceHandler) RebuildCaches(w http.ResponseWriter, r *http.Request) {
	if err := h.cacheService.Rebuild(r.Context()); err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "caches rebuilt"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MaintenanceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.maintenanceService.Stats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
