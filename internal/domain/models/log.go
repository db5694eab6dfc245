package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Audit log actions.
const (
	ActionAddProduct      = "Add Product"
	ActionEditProduct     = "Edit Product"
	ActionDeleteProduct   = "Delete Product"
	ActionUseProduct      = "Use Product"
	ActionExhaustProduct  = "Exhaust Product"
	ActionTransferProduct = "Transfer Product"
	ActionAddLocation     = "Add Location"
	ActionEditLocation    = "Edit Location"
	ActionDeleteLocation  = "Delete Location"
	ActionSetMinimum      = "Set Minimum Stock"
)

// LogEntry is an append-only audit record.
type LogEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// MinimumThreshold is a global per-product minimum stock level.
type MinimumThreshold struct {
	Product      string          `json:"product"`
	MinimumStock decimal.Decimal `json:"minimumStock"`
}
