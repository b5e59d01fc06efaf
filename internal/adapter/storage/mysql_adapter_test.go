package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
	"github.com/lodgeworks/inventory-ledger/internal/port"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/inventory?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func createTestItem(t *testing.T, adapter *MySQLAdapter, name string) *domain.InventoryItem {
	t.Helper()
	item := &domain.InventoryItem{Name: name, Description: "integration test item"}
	if err := adapter.CreateInventoryItem(context.Background(), item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	t.Cleanup(func() {
		adapter.DeleteInventoryItem(context.Background(), item.ID, true)
	})
	return item
}

func TestPersistTransaction_AppliesBalance(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	item := createTestItem(t, adapter, "it-persist")

	date := time.Now().Add(-time.Hour).Truncate(time.Second)
	item.Quantity = 5
	item.LastRestockedDate = &date
	txn := &domain.StockTransaction{
		InventoryID:     item.ID,
		Type:            domain.TransactionTypeRestock,
		Quantity:        5,
		TransactionDate: date,
	}

	if err := adapter.PersistTransaction(ctx, txn, item); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if txn.ID == 0 {
		t.Errorf("transaction id not assigned")
	}

	stored, err := adapter.GetInventoryItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if stored.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", stored.Quantity)
	}
	if stored.Version != 1 {
		t.Errorf("expected version 1, got %d", stored.Version)
	}
	if stored.LastRestockedDate == nil {
		t.Errorf("last_restocked_date not set")
	}
}

func TestPersistTransaction_StaleVersionConflicts(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	item := createTestItem(t, adapter, "it-conflict")

	stale := *item
	item.Quantity = 3
	txn := &domain.StockTransaction{
		InventoryID: item.ID, Type: domain.TransactionTypeRestock,
		Quantity: 3, TransactionDate: time.Now().Add(-time.Hour),
	}
	if err := adapter.PersistTransaction(ctx, txn, item); err != nil {
		t.Fatalf("first persist: %v", err)
	}

	stale.Quantity = 7
	staleTxn := &domain.StockTransaction{
		InventoryID: item.ID, Type: domain.TransactionTypeRestock,
		Quantity: 7, TransactionDate: time.Now().Add(-time.Hour),
	}
	err := adapter.PersistTransaction(ctx, staleTxn, &stale)
	if !errors.Is(err, port.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// the losing write must leave no ledger entry behind
	records, err := adapter.ListByInventoryID(ctx, item.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 ledger entry, got %d", len(records))
	}

	stored, _ := adapter.GetInventoryItem(ctx, item.ID)
	if stored.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", stored.Quantity)
	}
}

func TestListByInventoryID_Ordering(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	item := createTestItem(t, adapter, "it-ordering")

	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan5 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, date := range []time.Time{jan1, jan5, jan5} {
		item.Quantity++
		txn := &domain.StockTransaction{
			InventoryID: item.ID, Type: domain.TransactionTypeRestock,
			Quantity: 1, TransactionDate: date,
		}
		if err := adapter.PersistTransaction(ctx, txn, item); err != nil {
			t.Fatalf("persist: %v", err)
		}
	}

	records, err := adapter.ListByInventoryID(ctx, item.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !records[0].TransactionDate.Equal(jan5) || !records[1].TransactionDate.Equal(jan5) ||
		!records[2].TransactionDate.Equal(jan1) {
		t.Errorf("records not ordered by date desc: %v %v %v",
			records[0].TransactionDate, records[1].TransactionDate, records[2].TransactionDate)
	}
	if records[0].ID < records[1].ID {
		t.Errorf("same-date records not ordered by id desc: %d before %d", records[0].ID, records[1].ID)
	}
	if records[0].ItemName != "it-ordering" {
		t.Errorf("item name not resolved: %q", records[0].ItemName)
	}
}

func TestDeleteInventoryItem_Guard(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	item := createTestItem(t, adapter, "it-delete")

	item.Quantity = 1
	txn := &domain.StockTransaction{
		InventoryID: item.ID, Type: domain.TransactionTypeRestock,
		Quantity: 1, TransactionDate: time.Now().Add(-time.Hour),
	}
	if err := adapter.PersistTransaction(ctx, txn, item); err != nil {
		t.Fatalf("persist: %v", err)
	}

	err := adapter.DeleteInventoryItem(ctx, item.ID, false)
	if !errors.Is(err, domain.ErrItemHasTransactions) {
		t.Fatalf("expected ErrItemHasTransactions, got %v", err)
	}

	if err := adapter.DeleteInventoryItem(ctx, item.ID, true); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}
	stored, err := adapter.GetInventoryItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored != nil {
		t.Errorf("item still present after cascade delete")
	}
}

func TestGetInventoryItem_Absent(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)
	item, err := adapter.GetInventoryItem(context.Background(), -1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for absent item, got %+v", item)
	}
}
