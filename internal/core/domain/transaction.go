package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeRestock   TransactionType = "Restock"
	TransactionTypeReduction TransactionType = "Reduction"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeRestock || t == TransactionTypeReduction
}

type ReductionReason string

const (
	ReasonSpoilage ReductionReason = "Spoilage"
	ReasonUsed     ReductionReason = "Used"
	ReasonDamaged  ReductionReason = "Damaged"
	ReasonLost     ReductionReason = "Lost"
	ReasonExpired  ReductionReason = "Expired"
	ReasonOther    ReductionReason = "Other"
)

func (r ReductionReason) Valid() bool {
	switch r {
	case ReasonSpoilage, ReasonUsed, ReasonDamaged, ReasonLost, ReasonExpired, ReasonOther:
		return true
	}
	return false
}

// StockTransaction is one immutable ledger entry. Records are never updated
// or deleted once posted; an erroneous entry is corrected by posting a
// compensating transaction.
type StockTransaction struct {
	ID              int64
	InventoryID     int64
	Type            TransactionType
	Quantity        int // positive magnitude; Type carries the sign
	TransactionDate time.Time
	VendorID        *int64
	Reason          *ReductionReason
	UnitCost        decimal.NullDecimal
	Notes           string
	CreatedByUserID *int64
	CreatedAt       time.Time
}

// TransactionRecord is the read-model projection of a StockTransaction with
// display names resolved at query time. The names are never persisted on the
// ledger entry itself.
type TransactionRecord struct {
	StockTransaction
	ItemName   string
	VendorName string
	RecordedBy string
}

// TransactionRequest is the input to the ledger engine.
type TransactionRequest struct {
	InventoryID     int64
	Type            TransactionType
	Quantity        int
	TransactionDate time.Time
	VendorID        *int64
	Reason          *ReductionReason
	UnitCost        decimal.NullDecimal
	Notes           string
	CreatedByUserID *int64
	RequestID       string // optional client-supplied idempotency key
}

// Validate checks everything that can be decided without touching storage.
// The type-dependent required fields are enforced here: a Restock names the
// supplying vendor, a Reduction names its reason.
func (r TransactionRequest) Validate(now time.Time) error {
	if !r.Type.Valid() {
		return NewValidationError("transactionType must be Restock or Reduction")
	}
	if r.Quantity <= 0 {
		return NewValidationError("quantity must be a positive integer")
	}
	if r.TransactionDate.After(now) {
		return NewValidationError("transactionDate must not be in the future")
	}
	switch r.Type {
	case TransactionTypeRestock:
		if r.VendorID == nil {
			return NewValidationError("vendorId is required for Restock transactions")
		}
	case TransactionTypeReduction:
		if r.Reason == nil {
			return NewValidationError("reductionReason is required for Reduction transactions")
		}
		if !r.Reason.Valid() {
			return NewValidationError("unknown reductionReason")
		}
	}
	return nil
}
