package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
	"github.com/lodgeworks/inventory-ledger/internal/port"
)

var ErrDuplicateRequest = errors.New("duplicate request")

// maxConflictRetries bounds transparent retries of optimistic-lock conflicts.
// Domain errors are never retried.
const maxConflictRetries = 3

const idempotencyKeyPrefix = "stock-txn:"

// LedgerService is the only path that changes an InventoryItem's quantity.
type LedgerService struct {
	inventory port.InventoryRepository
	ledger    port.TransactionRepository
	vendors   port.VendorRepository
	users     port.UserRepository
	cache     port.CacheRepository
	publisher port.EventPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

func NewLedgerService(
	inventory port.InventoryRepository,
	ledger port.TransactionRepository,
	vendors port.VendorRepository,
	users port.UserRepository,
	cache port.CacheRepository,
	publisher port.EventPublisher,
	logger *logrus.Logger,
) *LedgerService {
	return &LedgerService{
		inventory: inventory,
		ledger:    ledger,
		vendors:   vendors,
		users:     users,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordTransaction validates the request, computes the new balance, and
// persists the ledger entry together with the balance update in one database
// transaction. Nothing is written before all checks pass. The returned record
// carries resolved display names; those are never stored on the entry.
func (s *LedgerService) RecordTransaction(ctx context.Context, req domain.TransactionRequest) (*domain.TransactionRecord, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}

	if req.RequestID != "" && s.cache != nil {
		ok, err := s.cache.SetIdempotency(ctx, idempotencyKeyPrefix+req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
	}

	item, err := s.loadItem(ctx, req.InventoryID)
	if err != nil {
		return nil, err
	}

	var vendor *domain.Vendor
	if req.VendorID != nil {
		vendor, err = s.vendors.GetVendor(ctx, *req.VendorID)
		if err != nil {
			return nil, fmt.Errorf("load vendor: %w", err)
		}
		if vendor == nil {
			return nil, domain.ErrVendorNotFound
		}
	}

	var actor *domain.User
	if req.CreatedByUserID != nil {
		actor, err = s.users.GetUser(ctx, *req.CreatedByUserID)
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if actor == nil {
			return nil, domain.ErrUserNotFound
		}
	}

	var txn *domain.StockTransaction
	for attempt := 1; ; attempt++ {
		newQuantity, err := applyDelta(item, req)
		if err != nil {
			return nil, err
		}

		txn = &domain.StockTransaction{
			InventoryID:     req.InventoryID,
			Type:            req.Type,
			Quantity:        req.Quantity,
			TransactionDate: req.TransactionDate,
			VendorID:        req.VendorID,
			Reason:          req.Reason,
			UnitCost:        req.UnitCost,
			Notes:           req.Notes,
			CreatedByUserID: req.CreatedByUserID,
		}

		item.Quantity = newQuantity
		if req.Type == domain.TransactionTypeRestock {
			date := req.TransactionDate
			item.LastRestockedDate = &date
		}

		err = s.ledger.PersistTransaction(ctx, txn, item)
		if err == nil {
			break
		}
		if !errors.Is(err, port.ErrConflict) {
			return nil, fmt.Errorf("persist transaction: %w", err)
		}
		if attempt >= maxConflictRetries {
			return nil, fmt.Errorf("record transaction for item %d: %w", req.InventoryID, port.ErrConflict)
		}

		s.logger.WithFields(logrus.Fields{
			"inventory_id": req.InventoryID,
			"attempt":      attempt,
		}).Warn("optimistic lock conflict, retrying")

		// another writer won the race; reload and recompute
		item, err = s.loadItem(ctx, req.InventoryID)
		if err != nil {
			return nil, err
		}
	}

	s.notifyIfLow(ctx, item)

	record := &domain.TransactionRecord{
		StockTransaction: *txn,
		ItemName:         item.Name,
	}
	if vendor != nil {
		record.VendorName = vendor.Name
	}
	if actor != nil {
		record.RecordedBy = actor.DisplayName
	}
	return record, nil
}

// ListTransactions returns the item's history, most recent business date
// first, ties broken by most recently recorded first.
func (s *LedgerService) ListTransactions(ctx context.Context, inventoryID int64) ([]domain.TransactionRecord, error) {
	if _, err := s.loadItem(ctx, inventoryID); err != nil {
		return nil, err
	}
	records, err := s.ledger.ListByInventoryID(ctx, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return records, nil
}

func (s *LedgerService) loadItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	item, err := s.inventory.GetInventoryItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load inventory item: %w", err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func applyDelta(item *domain.InventoryItem, req domain.TransactionRequest) (int, error) {
	switch req.Type {
	case domain.TransactionTypeRestock:
		return item.Quantity + req.Quantity, nil
	default:
		newQuantity := item.Quantity - req.Quantity
		if newQuantity < 0 {
			return 0, &domain.InsufficientStockError{
				InventoryID: item.ID,
				Available:   item.Quantity,
				Requested:   req.Quantity,
			}
		}
		return newQuantity, nil
	}
}

// notifyIfLow fires on every committed transaction that leaves the balance
// under the threshold, not only on the first crossing. Publish failures are
// logged and swallowed; the ledger write has already committed.
func (s *LedgerService) notifyIfLow(ctx context.Context, item *domain.InventoryItem) {
	if s.publisher == nil || !item.BelowMinimum() {
		return
	}
	event := domain.LowStockEvent{
		EventID:      uuid.New().String(),
		InventoryID:  item.ID,
		ItemName:     item.Name,
		Quantity:     item.Quantity,
		MinimumStock: *item.MinimumStock,
		OccurredAt:   s.now(),
	}
	if err := s.publisher.PublishLowStock(ctx, event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"inventory_id": item.ID,
			"event_id":     event.EventID,
		}).WithError(err).Warn("failed to publish low-stock event")
	}
}
