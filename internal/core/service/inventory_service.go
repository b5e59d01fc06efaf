package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
	"github.com/lodgeworks/inventory-ledger/internal/port"
)

// ItemInput carries the editable fields of an inventory item. Quantity is
// deliberately absent: the balance only moves through the ledger.
type ItemInput struct {
	Name         string
	Description  string
	Category     string
	Location     string
	MinimumStock *int
	UnitCost     decimal.NullDecimal
	Notes        string
}

func (in ItemInput) validate() error {
	if in.Name == "" {
		return domain.NewValidationError("name is required")
	}
	if in.MinimumStock != nil && *in.MinimumStock < 0 {
		return domain.NewValidationError("minimumStock must not be negative")
	}
	if in.UnitCost.Valid && in.UnitCost.Decimal.IsNegative() {
		return domain.NewValidationError("unitCost must not be negative")
	}
	return nil
}

type InventoryService struct {
	inventory port.InventoryRepository
	logger    *logrus.Logger
}

func NewInventoryService(inventory port.InventoryRepository, logger *logrus.Logger) *InventoryService {
	return &InventoryService{inventory: inventory, logger: logger}
}

// CreateItem registers a new item with a zero balance.
func (s *InventoryService) CreateItem(ctx context.Context, in ItemInput) (*domain.InventoryItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := &domain.InventoryItem{
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Location:     in.Location,
		Quantity:     0,
		MinimumStock: in.MinimumStock,
		UnitCost:     in.UnitCost,
		Notes:        in.Notes,
	}
	if err := s.inventory.CreateInventoryItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create inventory item: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"inventory_id": item.ID, "name": item.Name}).Info("inventory item created")
	return item, nil
}

// UpdateItem edits descriptive fields. The current quantity and restock date
// are carried over untouched.
func (s *InventoryService) UpdateItem(ctx context.Context, id int64, in ItemInput) (*domain.InventoryItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.Description = in.Description
	item.Category = in.Category
	item.Location = in.Location
	item.MinimumStock = in.MinimumStock
	item.UnitCost = in.UnitCost
	item.Notes = in.Notes
	if err := s.inventory.UpdateInventoryItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update inventory item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	item, err := s.inventory.GetInventoryItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load inventory item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *InventoryService) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.inventory.ListInventoryItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	return items, nil
}

// DeleteItem removes an item. Items with recorded transactions are protected
// unless the caller explicitly cascades, which removes the audit trail along
// with the item.
func (s *InventoryService) DeleteItem(ctx context.Context, id int64, cascade bool) error {
	if err := s.inventory.DeleteInventoryItem(ctx, id, cascade); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"inventory_id": id, "cascade": cascade}).Info("inventory item deleted")
	return nil
}
