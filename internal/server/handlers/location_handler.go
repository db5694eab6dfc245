package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// ListLocations returns every storage place.
func (h *InventoryHandler) ListLocations(c *gin.Context) {
	locations, err := h.svc.Locations(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, locations)
}

// CreateLocation adds a storage place.
func (h *InventoryHandler) CreateLocation(c *gin.Context) {
	var req locationPayload
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	loc, err := h.svc.CreateLocation(c.Request.Context(), models.LocationRecord{Room: req.Room, Cabinet: req.Cabinet})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, loc)
}

// UpdateLocation renames a storage place.
func (h *InventoryHandler) UpdateLocation(c *gin.Context) {
	var req locationPayload
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	loc, err := h.svc.UpdateLocation(c.Request.Context(), c.Param("id"), models.LocationRecord{Room: req.Room, Cabinet: req.Cabinet})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, loc)
}

// DeleteLocation removes an empty storage place.
func (h *InventoryHandler) DeleteLocation(c *gin.Context) {
	if err := h.svc.DeleteLocation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// ListLogs returns the newest audit entries first.
func (h *InventoryHandler) ListLogs(c *gin.Context) {
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	entries, err := h.svc.Logs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, entries)
}

// AppendLog records a client supplied audit entry.
func (h *InventoryHandler) AppendLog(c *gin.Context) {
	var req logPayload
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.AppendLog(c.Request.Context(), req.Action, req.Details); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, nil)
}

// ListMinimums returns the global per-product thresholds.
func (h *InventoryHandler) ListMinimums(c *gin.Context) {
	mins, err := h.svc.Minimums(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, mins)
}

// SetMinimum sets the global threshold of a product.
func (h *InventoryHandler) SetMinimum(c *gin.Context) {
	var req minimumPayload
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.SetMinimum(c.Request.Context(), req.Product, req.MinimumStock.Value); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, models.MinimumThreshold{Product: req.Product, MinimumStock: req.MinimumStock.Value})
}
