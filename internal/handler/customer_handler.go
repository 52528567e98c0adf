package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cruzaro/hpcollect/internal/service"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// CustomerHandler handles registration, assignment, collection, and
// customer management endpoints.
type CustomerHandler struct {
	registrationService *service.RegistrationService
	collectionService   *service.CollectionService
	customerService     *service.CustomerService
	snapshots           service.SnapshotSource
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(
	registrationService *service.RegistrationService,
	collectionService *service.CollectionService,
	customerService *service.CustomerService,
	snapshots service.SnapshotSource,
) *CustomerHandler {
	return &CustomerHandler{
		registrationService: registrationService,
		collectionService:   collectionService,
		customerService:     customerService,
		snapshots:           snapshots,
	}
}

// GetCustomers lists every customer from the current snapshot.
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	snap, err := h.snapshots.Current()
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Customers retrieved successfully", gin.H{
		"customers":       snap.Customers,
		"snapshotVersion": snap.Version,
	})
}

// GetStatement returns the per-customer ledger view.
func (h *CustomerHandler) GetStatement(c *gin.Context) {
	statement, err := h.customerService.Statement(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Statement retrieved successfully", statement)
}

// Register creates a customer with their first product.
func (h *CustomerHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	customer, err := h.registrationService.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Customer registered successfully", customer)
}

// AssignProduct adds a product to an existing customer.
func (h *CustomerHandler) AssignProduct(c *gin.Context) {
	var req struct {
		ItemID string `json:"itemId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.registrationService.AssignProduct(c.Request.Context(), c.Param("id"), req.ItemID)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Product assigned successfully", product)
}

// Collect records an installment payment against a customer's assignment.
func (h *CustomerHandler) Collect(c *gin.Context) {
	var req service.CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	req.CustomerID = c.Param("id")

	payment, err := h.collectionService.Collect(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 201, "Payment collected successfully", payment)
}

// Transfer reassigns the customer to another agent.
func (h *CustomerHandler) Transfer(c *gin.Context) {
	var req struct {
		AgentID string `json:"agentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.customerService.Transfer(c.Request.Context(), c.Param("id"), req.AgentID); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Customer transferred successfully", nil)
}

// SetActive toggles the customer's active flag.
func (h *CustomerHandler) SetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.customerService.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Customer status updated", nil)
}

// UpdateProfile changes the customer's contact details.
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.customerService.UpdateProfile(c.Request.Context(), c.Param("id"), req.Name, req.Phone); err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Customer updated successfully", nil)
}
