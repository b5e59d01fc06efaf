package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is the aggregate root for stock. Quantity is the
// authoritative on-hand balance and is only ever changed through the
// ledger; descriptive fields may be edited directly.
type InventoryItem struct {
	ID                int64
	Name              string
	Description       string
	Category          string
	Location          string
	Quantity          int
	MinimumStock      *int
	UnitCost          decimal.NullDecimal
	LastRestockedDate *time.Time
	Notes             string
	Version           int // optimistic locking
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BelowMinimum reports whether the current balance is under the configured
// threshold. Items without a threshold are never low.
func (i *InventoryItem) BelowMinimum() bool {
	return i.MinimumStock != nil && i.Quantity < *i.MinimumStock
}
