package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/cruzaro/hpcollect/internal/service"
	"github.com/cruzaro/hpcollect/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	db        *sqlx.DB
	snapshots service.SnapshotSource
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB, snapshots service.SnapshotSource) *HealthHandler {
	return &HealthHandler{db: db, snapshots: snapshots}
}

// GetHealth responds with service, database, and snapshot status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	dbStatus := "connected"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "disconnected"
	}

	var snapshotVersion int64
	snapshotStatus := "empty"
	var snapshotAge float64
	if snap, err := h.snapshots.Current(); err == nil {
		snapshotStatus = "published"
		snapshotVersion = snap.Version
		snapshotAge = time.Since(snap.FetchedAt).Seconds()
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":   "healthy",
		"version":  "1.0.0",
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": dbStatus,
		"snapshot": gin.H{
			"status":     snapshotStatus,
			"version":    snapshotVersion,
			"ageSeconds": int(snapshotAge),
		},
	})
}
