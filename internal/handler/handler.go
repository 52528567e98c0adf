package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cruzaro/hpcollect/internal/utils"
)

// fail maps a workflow error onto the response envelope. Sentinel error text
// doubles as the wire error code.
func fail(c *gin.Context, err error) {
	status := 500
	code := "INTERNAL_ERROR"
	message := "Internal server error"

	switch {
	case errors.Is(err, utils.ErrMissingField),
		errors.Is(err, utils.ErrInvalidBoxCount),
		errors.Is(err, utils.ErrInvalidAmount),
		errors.Is(err, utils.ErrInvalidItem):
		status = 400
	case errors.Is(err, utils.ErrOverCollection),
		errors.Is(err, utils.ErrNoChange),
		errors.Is(err, utils.ErrItemInUse),
		errors.Is(err, utils.ErrEmailTaken):
		status = 409
	case errors.Is(err, utils.ErrCustomerNotFound),
		errors.Is(err, utils.ErrProductNotFound),
		errors.Is(err, utils.ErrAgentNotFound),
		errors.Is(err, utils.ErrItemNotFound):
		status = 404
	case errors.Is(err, utils.ErrInvalidCredentials),
		errors.Is(err, utils.ErrInvalidToken),
		errors.Is(err, utils.ErrAccessRevoked):
		status = 401
	case errors.Is(err, utils.ErrAccountInactive):
		status = 403
	case errors.Is(err, utils.ErrNoSnapshot),
		errors.Is(err, utils.ErrSyncFailed):
		status = 503
	}

	if status != 500 {
		code = err.Error()
		message = humanMessage(code)
	}
	utils.Error(c, status, code, message)
}

// humanMessage expands a wire error code into a readable message.
func humanMessage(code string) string {
	switch code {
	case "MISSING_FIELD":
		return "A required field is missing or blank"
	case "INVALID_BOX_COUNT":
		return "Box count must be a positive whole number"
	case "INVALID_AMOUNT":
		return "Amount must be greater than zero"
	case "INVALID_ITEM":
		return "Item has no usable price"
	case "OVER_COLLECTION_UNCONFIRMED":
		return "Collection exceeds the remaining balance; confirm to proceed"
	case "NO_CHANGE":
		return "Customer is already assigned to this agent"
	case "ITEM_IN_USE":
		return "Item is assigned to customers and cannot be deleted"
	case "EMAIL_TAKEN":
		return "Email is already registered"
	case "CUSTOMER_NOT_FOUND":
		return "Customer not found"
	case "PRODUCT_NOT_FOUND":
		return "No such product assignment for this customer"
	case "AGENT_NOT_FOUND":
		return "Agent not found"
	case "ITEM_NOT_FOUND":
		return "Item not found"
	case "INVALID_CREDENTIALS":
		return "Invalid email or password"
	case "INVALID_TOKEN":
		return "Invalid or expired token"
	case "ACCESS_REVOKED":
		return "Session has been terminated"
	case "ACCOUNT_INACTIVE":
		return "Account has been deactivated"
	case "NO_SNAPSHOT":
		return "Data not synchronized yet, try again shortly"
	case "SYNC_FAILED":
		return "Synchronization failed, previous data retained"
	}
	return code
}
