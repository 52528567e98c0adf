package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cruzaro/hpcollect/internal/middleware"
	"github.com/cruzaro/hpcollect/internal/service"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// AgentHandler handles roster management and the agent's own dashboard.
type AgentHandler struct {
	agentService *service.AgentService
	snapshots    service.SnapshotSource
}

// NewAgentHandler constructs an AgentHandler.
func NewAgentHandler(agentService *service.AgentService, snapshots service.SnapshotSource) *AgentHandler {
	return &AgentHandler{agentService: agentService, snapshots: snapshots}
}

// GetAgents lists the full roster from the current snapshot.
func (h *AgentHandler) GetAgents(c *gin.Context) {
	snap, err := h.snapshots.Current()
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Agents retrieved successfully", gin.H{
		"agents":          snap.Agents,
		"snapshotVersion": snap.Version,
	})
}

// CreateAgent onboards a new agent.
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req service.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	agent, err := h.agentService.CreateAgent(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Agent created successfully", agent)
}

// SetActive toggles the agent's active flag.
func (h *AgentHandler) SetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.agentService.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Agent status updated", nil)
}

// GetDashboard returns the signed-in agent's working view.
func (h *AgentHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.agentService.Dashboard(middleware.ProfileID(c))
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Dashboard retrieved successfully", dashboard)
}
