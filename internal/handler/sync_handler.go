package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cruzaro/hpcollect/internal/service"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// SyncHandler exposes a manual snapshot refresh for admins.
type SyncHandler struct {
	refresher service.Refresher
}

// NewSyncHandler constructs a SyncHandler.
func NewSyncHandler(refresher service.Refresher) *SyncHandler {
	return &SyncHandler{refresher: refresher}
}

// Refresh rebuilds the snapshot immediately instead of waiting for the next
// scheduled cycle.
func (h *SyncHandler) Refresh(c *gin.Context) {
	snap, err := h.refresher.Refresh(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Snapshot refreshed", gin.H{
		"version":   snap.Version,
		"fetchedAt": snap.FetchedAt,
	})
}
