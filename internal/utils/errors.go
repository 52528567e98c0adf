package utils

import "errors"

// Common application errors used across services. Naming convention keeps the
// wire error code equal to the error text.
var (
	// Validation: workflow input rejected before any write.
	ErrMissingField    = errors.New("MISSING_FIELD")
	ErrInvalidBoxCount = errors.New("INVALID_BOX_COUNT")
	ErrInvalidAmount   = errors.New("INVALID_AMOUNT")
	ErrInvalidItem     = errors.New("INVALID_ITEM")

	// Workflow outcomes.
	ErrOverCollection   = errors.New("OVER_COLLECTION_UNCONFIRMED")
	ErrNoChange         = errors.New("NO_CHANGE")
	ErrItemInUse        = errors.New("ITEM_IN_USE")
	ErrCustomerNotFound = errors.New("CUSTOMER_NOT_FOUND")
	ErrProductNotFound  = errors.New("PRODUCT_NOT_FOUND")
	ErrAgentNotFound    = errors.New("AGENT_NOT_FOUND")
	ErrItemNotFound     = errors.New("ITEM_NOT_FOUND")
	ErrEmailTaken       = errors.New("EMAIL_TAKEN")

	// Synchronization: previous snapshot retained, caller may retry.
	ErrSyncFailed = errors.New("SYNC_FAILED")
	ErrNoSnapshot = errors.New("NO_SNAPSHOT")

	// Access control.
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccessRevoked      = errors.New("ACCESS_REVOKED")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
)
