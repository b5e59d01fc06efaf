package port

import (
	"context"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
)

type EventPublisher interface {
	// PublishLowStock emits a low-stock notification after the causing
	// transaction has committed. Delivery is best effort; failures must not
	// roll back the ledger write.
	PublishLowStock(ctx context.Context, event domain.LowStockEvent) error
}
