package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lodgeworks/inventory-ledger/internal/port"
)

type LowStockRow struct {
	InventoryID  int64  `json:"inventory_id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Quantity     int    `json:"quantity"`
	MinimumStock int    `json:"minimum_stock"`
	Deficit      int    `json:"deficit"`
}

type CategoryValuation struct {
	Category      string          `json:"category"`
	ItemCount     int             `json:"item_count"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

type ValuationReport struct {
	TotalValue decimal.Decimal     `json:"total_value"`
	Categories []CategoryValuation `json:"categories"`
}

type ReportService struct {
	inventory port.InventoryRepository
}

func NewReportService(inventory port.InventoryRepository) *ReportService {
	return &ReportService{inventory: inventory}
}

// LowStockReport lists every item sitting under its configured threshold with
// how far under it is.
func (s *ReportService) LowStockReport(ctx context.Context) ([]LowStockRow, error) {
	items, err := s.inventory.ListLowStockItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}
	rows := make([]LowStockRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, LowStockRow{
			InventoryID:  item.ID,
			Name:         item.Name,
			Location:     item.Location,
			Quantity:     item.Quantity,
			MinimumStock: *item.MinimumStock,
			Deficit:      *item.MinimumStock - item.Quantity,
		})
	}
	return rows, nil
}

// InventoryValuation sums quantity times unit cost across the store, grouped
// by category. Items without a unit cost contribute quantity but no value.
func (s *ReportService) InventoryValuation(ctx context.Context) (*ValuationReport, error) {
	items, err := s.inventory.ListInventoryItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}

	byCategory := make(map[string]*CategoryValuation)
	total := decimal.Zero
	for _, item := range items {
		cat := byCategory[item.Category]
		if cat == nil {
			cat = &CategoryValuation{Category: item.Category, TotalValue: decimal.Zero}
			byCategory[item.Category] = cat
		}
		cat.ItemCount++
		cat.TotalQuantity += item.Quantity
		if item.UnitCost.Valid {
			value := item.UnitCost.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
			cat.TotalValue = cat.TotalValue.Add(value)
			total = total.Add(value)
		}
	}

	categories := make([]CategoryValuation, 0, len(byCategory))
	for _, cat := range byCategory {
		categories = append(categories, *cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})

	return &ValuationReport{TotalValue: total, Categories: categories}, nil
}
