package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
)

func TestLowStockReport(t *testing.T) {
	store := newMockStore()
	svc := NewReportService(store)

	store.addItem(domain.InventoryItem{Name: "Towels", Quantity: 3, MinimumStock: intPtr(10)})
	store.addItem(domain.InventoryItem{Name: "Soap", Quantity: 20, MinimumStock: intPtr(10)})
	store.addItem(domain.InventoryItem{Name: "Untracked", Quantity: 0})

	rows, err := svc.LowStockReport(context.Background())
	if err != nil {
		t.Fatalf("LowStockReport failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 low-stock row, got %d", len(rows))
	}
	if rows[0].Name != "Towels" || rows[0].Deficit != 7 {
		t.Errorf("unexpected row: %s deficit=%d", rows[0].Name, rows[0].Deficit)
	}
}

func TestInventoryValuation(t *testing.T) {
	store := newMockStore()
	svc := NewReportService(store)

	cost := func(s string) decimal.NullDecimal {
		d, _ := decimal.NewFromString(s)
		return decimal.NewNullDecimal(d)
	}
	store.addItem(domain.InventoryItem{Name: "Towels", Category: "Linen", Quantity: 10, UnitCost: cost("2.50")})
	store.addItem(domain.InventoryItem{Name: "Sheets", Category: "Linen", Quantity: 4, UnitCost: cost("12.00")})
	store.addItem(domain.InventoryItem{Name: "Bulbs", Category: "Electrical", Quantity: 100, UnitCost: cost("0.75")})
	store.addItem(domain.InventoryItem{Name: "Unpriced", Category: "Electrical", Quantity: 5})

	report, err := svc.InventoryValuation(context.Background())
	if err != nil {
		t.Fatalf("InventoryValuation failed: %v", err)
	}

	if !report.TotalValue.Equal(decimal.RequireFromString("148")) {
		t.Errorf("expected total 148, got %s", report.TotalValue)
	}
	if len(report.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(report.Categories))
	}

	electrical := report.Categories[0]
	if electrical.Category != "Electrical" {
		t.Fatalf("expected categories sorted, got %s first", electrical.Category)
	}
	if electrical.ItemCount != 2 || electrical.TotalQuantity != 105 {
		t.Errorf("unexpected electrical counts: %d items, %d qty", electrical.ItemCount, electrical.TotalQuantity)
	}
	if !electrical.TotalValue.Equal(decimal.RequireFromString("75")) {
		t.Errorf("expected electrical value 75, got %s", electrical.TotalValue)
	}

	linen := report.Categories[1]
	if !linen.TotalValue.Equal(decimal.RequireFromString("73")) {
		t.Errorf("expected linen value 73, got %s", linen.TotalValue)
	}
}
