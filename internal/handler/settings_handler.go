package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cruzaro/hpcollect/internal/service"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// SettingsHandler handles system configuration endpoints.
type SettingsHandler struct {
	settingsService *service.SettingsService
	snapshots       service.SnapshotSource
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(settingsService *service.SettingsService, snapshots service.SnapshotSource) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, snapshots: snapshots}
}

// GetSettings returns the effective settings and zone list.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	snap, err := h.snapshots.Current()
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Settings retrieved successfully", gin.H{
		"settings":  snap.Settings,
		"locations": snap.Locations,
	})
}

// UpdateRegistrationFee saves a new registration fee.
func (h *SettingsHandler) UpdateRegistrationFee(c *gin.Context) {
	var req struct {
		RegistrationFee float64 `json:"registrationFee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.settingsService.UpdateRegistrationFee(c.Request.Context(), req.RegistrationFee); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Registration fee updated", nil)
}

// AddZone creates a geographic zone.
func (h *SettingsHandler) AddZone(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	location, err := h.settingsService.AddZone(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Zone added successfully", location)
}
