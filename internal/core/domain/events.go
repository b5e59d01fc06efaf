package domain

import "time"

// LowStockEvent is raised after a committed transaction leaves an item's
// balance under its minimum threshold. It fires on every such transaction,
// not only on the first crossing.
type LowStockEvent struct {
	EventID      string    `json:"event_id"`
	InventoryID  int64     `json:"inventory_id"`
	ItemName     string    `json:"item_name"`
	Quantity     int       `json:"quantity"`
	MinimumStock int       `json:"minimum_stock"`
	OccurredAt   time.Time `json:"occurred_at"`
}
