package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cruzaro/hpcollect/internal/service"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// ItemHandler handles product catalog endpoints.
type ItemHandler struct {
	itemService *service.ItemService
	snapshots   service.SnapshotSource
}

// NewItemHandler constructs an ItemHandler.
func NewItemHandler(itemService *service.ItemService, snapshots service.SnapshotSource) *ItemHandler {
	return &ItemHandler{itemService: itemService, snapshots: snapshots}
}

// GetItems lists the catalog from the current snapshot.
func (h *ItemHandler) GetItems(c *gin.Context) {
	snap, err := h.snapshots.Current()
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Items retrieved successfully", gin.H{
		"items":           snap.Items,
		"snapshotVersion": snap.Version,
	})
}

// CreateItem adds a catalog item.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req service.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	req.ID = ""

	item, err := h.itemService.Save(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Item created successfully", item)
}

// UpdateItem rewrites one catalog item.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req service.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	req.ID = c.Param("id")

	item, err := h.itemService.Save(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Item updated successfully", item)
}

// DeleteItem removes an unreferenced catalog item.
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.itemService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Item deleted successfully", nil)
}
