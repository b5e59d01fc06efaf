package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
	"github.com/lodgeworks/inventory-ledger/internal/port"
)

// MySQLAdapter implements every repository port over one connection pool.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

const itemColumns = `id, name, description, category, location, quantity,
	minimum_stock, unit_cost, last_restocked_date, notes, version, created_at, updated_at`

func (m *MySQLAdapter) GetInventoryItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items WHERE id = ?`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory item: %w", err)
	}
	return item, nil
}

func (m *MySQLAdapter) CreateInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory_items
			(name, description, category, location, quantity, minimum_stock, unit_cost, notes, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, 0, NOW(), NOW())`,
		item.Name, item.Description, item.Category, item.Location,
		nullIntPtr(item.MinimumStock), item.UnitCost, item.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	item.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	item.Quantity = 0
	item.Version = 0
	return nil
}

func (m *MySQLAdapter) UpdateInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET name = ?, description = ?, category = ?, location = ?,
			minimum_stock = ?, unit_cost = ?, notes = ?,
			version = version + 1, updated_at = NOW()
		WHERE id = ? AND version = ?`,
		item.Name, item.Description, item.Category, item.Location,
		nullIntPtr(item.MinimumStock), item.UnitCost, item.Notes,
		item.ID, item.Version,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrConflict
	}
	item.Version++
	return nil
}

func (m *MySQLAdapter) ListInventoryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return m.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items ORDER BY name, id`)
}

func (m *MySQLAdapter) ListLowStockItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return m.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		WHERE minimum_stock IS NOT NULL AND quantity < minimum_stock
		ORDER BY name, id`)
}

func (m *MySQLAdapter) queryItems(ctx context.Context, query string) ([]domain.InventoryItem, error) {
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query inventory items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (m *MySQLAdapter) DeleteInventoryItem(ctx context.Context, id int64, cascade bool) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if cascade {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM stock_transactions WHERE inventory_id = ?`, id); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
	} else {
		var count int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM stock_transactions WHERE inventory_id = ?`, id).Scan(&count)
		if err != nil {
			return fmt.Errorf("count transactions: %w", err)
		}
		if count > 0 {
			return domain.ErrItemHasTransactions
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrItemNotFound
	}

	return tx.Commit()
}

// PersistTransaction appends the ledger entry and applies the new balance in
// one database transaction. The balance update is fenced by the version read
// at load time; if a concurrent writer got there first the update matches no
// row, the whole unit rolls back, and the caller sees port.ErrConflict.
func (m *MySQLAdapter) PersistTransaction(ctx context.Context, txn *domain.StockTransaction, item *domain.InventoryItem) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO stock_transactions
			(inventory_id, transaction_type, quantity, transaction_date, vendor_id,
			 reduction_reason, unit_cost, notes, created_by_user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.InventoryID, string(txn.Type), txn.Quantity, txn.TransactionDate,
		nullInt64Ptr(txn.VendorID), nullReason(txn.Reason), txn.UnitCost,
		txn.Notes, nullInt64Ptr(txn.CreatedByUserID), now,
	)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	txnID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE inventory_items
		SET quantity = ?, last_restocked_date = ?, version = version + 1, updated_at = NOW()
		WHERE id = ? AND version = ?`,
		item.Quantity, nullTimePtr(item.LastRestockedDate), item.ID, item.Version,
	)
	if err != nil {
		return fmt.Errorf("update inventory balance: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrConflict
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	txn.ID = txnID
	txn.CreatedAt = now
	item.Version++
	return nil
}

func (m *MySQLAdapter) ListByInventoryID(ctx context.Context, inventoryID int64) ([]domain.TransactionRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT t.id, t.inventory_id, t.transaction_type, t.quantity, t.transaction_date,
			t.vendor_id, t.reduction_reason, t.unit_cost, t.notes, t.created_by_user_id, t.created_at,
			i.name, v.name, u.display_name
		FROM stock_transactions t
		JOIN inventory_items i ON i.id = t.inventory_id
		LEFT JOIN vendors v ON v.id = t.vendor_id
		LEFT JOIN users u ON u.id = t.created_by_user_id
		WHERE t.inventory_id = ?
		ORDER BY t.transaction_date DESC, t.id DESC`, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("query stock transactions: %w", err)
	}
	defer rows.Close()

	records := make([]domain.TransactionRecord, 0)
	for rows.Next() {
		var (
			rec        domain.TransactionRecord
			txnType    string
			vendorID   sql.NullInt64
			reason     sql.NullString
			userID     sql.NullInt64
			vendorName sql.NullString
			userName   sql.NullString
		)
		err := rows.Scan(
			&rec.ID, &rec.InventoryID, &txnType, &rec.Quantity, &rec.TransactionDate,
			&vendorID, &reason, &rec.UnitCost, &rec.Notes, &userID, &rec.CreatedAt,
			&rec.ItemName, &vendorName, &userName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		rec.Type = domain.TransactionType(txnType)
		if vendorID.Valid {
			rec.VendorID = &vendorID.Int64
		}
		if reason.Valid {
			r := domain.ReductionReason(reason.String)
			rec.Reason = &r
		}
		if userID.Valid {
			rec.CreatedByUserID = &userID.Int64
		}
		rec.VendorName = vendorName.String
		rec.RecordedBy = userName.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (m *MySQLAdapter) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, active, created_at FROM vendors WHERE id = ?`, id,
	).Scan(&vendor.ID, &vendor.Name, &vendor.Active, &vendor.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query vendor: %w", err)
	}
	return &vendor, nil
}

func (m *MySQLAdapter) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO vendors (name, active, created_at) VALUES (?, ?, NOW())`,
		vendor.Name, vendor.Active,
	)
	if err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	vendor.ID, err = result.LastInsertId()
	return err
}

func (m *MySQLAdapter) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, active, created_at FROM vendors ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query vendors: %w", err)
	}
	defer rows.Close()

	vendors := make([]domain.Vendor, 0)
	for rows.Next() {
		var vendor domain.Vendor
		if err := rows.Scan(&vendor.ID, &vendor.Name, &vendor.Active, &vendor.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, vendor)
	}
	return vendors, rows.Err()
}

const userColumns = `id, username, password_hash, display_name, role, active, created_at`

func (m *MySQLAdapter) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return m.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (m *MySQLAdapter) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (m *MySQLAdapter) queryUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := m.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.DisplayName,
		&role, &user.Active, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	user.Role = domain.Role(role)
	return &user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.InventoryItem, error) {
	var (
		item          domain.InventoryItem
		minimumStock  sql.NullInt64
		unitCost      decimal.NullDecimal
		lastRestocked sql.NullTime
	)
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Category, &item.Location,
		&item.Quantity, &minimumStock, &unitCost, &lastRestocked, &item.Notes,
		&item.Version, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if minimumStock.Valid {
		v := int(minimumStock.Int64)
		item.MinimumStock = &v
	}
	item.UnitCost = unitCost
	if lastRestocked.Valid {
		t := lastRestocked.Time
		item.LastRestockedDate = &t
	}
	return &item, nil
}

func nullIntPtr(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullInt64Ptr(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullTimePtr(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p, Valid: true}
}

func nullReason(r *domain.ReductionReason) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}
