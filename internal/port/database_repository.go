package port

import (
	"context"
	"errors"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
)

// ErrConflict signals a stale optimistic-lock version; the caller reloads and
// retries a bounded number of times.
var ErrConflict = errors.New("optimistic lock conflict")

type InventoryRepository interface {
	// GetInventoryItem retrieves an item by id, nil when absent
	GetInventoryItem(ctx context.Context, id int64) (*domain.InventoryItem, error)

	CreateInventoryItem(ctx context.Context, item *domain.InventoryItem) error

	// UpdateInventoryItem persists descriptive fields with a version check;
	// the quantity column is owned by the ledger and left untouched here
	UpdateInventoryItem(ctx context.Context, item *domain.InventoryItem) error

	ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error)

	// ListLowStockItems returns items whose quantity is under their threshold
	ListLowStockItems(ctx context.Context) ([]domain.InventoryItem, error)

	// DeleteInventoryItem removes an item. Without cascade it fails with
	// domain.ErrItemHasTransactions when ledger entries reference the item;
	// with cascade the entries and the item go in one database transaction.
	DeleteInventoryItem(ctx context.Context, id int64, cascade bool) error
}

type TransactionRepository interface {
	// PersistTransaction appends the ledger entry and applies the already
	// computed balance on item in a single database transaction. The item
	// row update is guarded by item.Version; a stale version yields
	// ErrConflict and nothing is written.
	PersistTransaction(ctx context.Context, txn *domain.StockTransaction, item *domain.InventoryItem) error

	// ListByInventoryID returns the item's history ordered by transaction
	// date descending, then insertion order descending, with display names
	// resolved at query time.
	ListByInventoryID(ctx context.Context, inventoryID int64) ([]domain.TransactionRecord, error)
}

type VendorRepository interface {
	// GetVendor retrieves a vendor by id, nil when absent
	GetVendor(ctx context.Context, id int64) (*domain.Vendor, error)

	CreateVendor(ctx context.Context, vendor *domain.Vendor) error

	ListVendors(ctx context.Context) ([]domain.Vendor, error)
}

type UserRepository interface {
	// GetUser retrieves a user by id, nil when absent
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// GetUserByUsername retrieves an active user for login, nil when absent
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
