package notifier

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
)

// LogPublisher stands in when no broker is configured; events land in the
// structured log instead of a queue.
type LogPublisher struct {
	logger *logrus.Logger
}

func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishLowStock(_ context.Context, event domain.LowStockEvent) error {
	p.logger.WithFields(logrus.Fields{
		"event_id":      event.EventID,
		"inventory_id":  event.InventoryID,
		"item_name":     event.ItemName,
		"quantity":      event.Quantity,
		"minimum_stock": event.MinimumStock,
	}).Warn("low stock")
	return nil
}
