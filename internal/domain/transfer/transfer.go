package transfer

import (
	"time"

	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus represents the status of an inter-branch transfer
type TransferStatus string

const (
	TransferStatusDraft     TransferStatus = "DRAFT"
	TransferStatusSent      TransferStatus = "SENT"
	TransferStatusReceived  TransferStatus = "RECEIVED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusDraft, TransferStatusSent, TransferStatusReceived, TransferStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusDraft:
		return target == TransferStatusSent || target == TransferStatusCancelled
	case TransferStatusSent:
		return target == TransferStatusReceived || target == TransferStatusCancelled
	case TransferStatusReceived, TransferStatusCancelled:
		return false // Terminal states
	}
	return false
}

// TransferLine is one item line of a transfer. Requested quantity is set in
// draft, sent quantity and cost are frozen at send time, received quantity is
// recorded at receipt. The unit cost is the source's weighted average at send
// time and travels with the transfer.
type TransferLine struct {
	shared.BaseEntity
	TransferID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	RequestedQty    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SentQty         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCostForeign decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCostBase    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (TransferLine) TableName() string {
	return "transfer_lines"
}

// SentCost returns the unit cost pair the line was sent at
func (l *TransferLine) SentCost() costing.DualCost {
	return costing.DualCost{Foreign: l.UnitCostForeign, Base: l.UnitCostBase}
}

// Shortfall returns sent minus received
func (l *TransferLine) Shortfall() decimal.Decimal {
	return l.SentQty.Sub(l.ReceivedQty)
}

// Transfer represents a movement of stock between two branches. It is the
// aggregate root for transfer operations. All lines share one item kind.
type Transfer struct {
	shared.BaseAggregateRoot
	TransferNumber string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	SourceBranchID uuid.UUID      `gorm:"type:uuid;not null;index"`
	DestBranchID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Kind           stock.ItemKind `gorm:"type:varchar(20);not null"`
	Status         TransferStatus `gorm:"type:varchar(20);not null;index"`
	SentAt         *time.Time     `gorm:"type:timestamptz"`
	ReceivedAt     *time.Time     `gorm:"type:timestamptz"`
	CancelledAt    *time.Time     `gorm:"type:timestamptz"`
	CreatedByID    uuid.UUID      `gorm:"type:uuid;not null"`
	Lines          []TransferLine `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// NewTransfer creates a draft transfer between two distinct branches
func NewTransfer(
	transferNumber string,
	sourceBranchID, destBranchID uuid.UUID,
	kind stock.ItemKind,
	createdByID uuid.UUID,
) (*Transfer, error) {
	if transferNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_NUMBER", "Transfer number cannot be empty")
	}
	if sourceBranchID == uuid.Nil || destBranchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if sourceBranchID == destBranchID {
		return nil, shared.ErrCrossBranchViolation
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}

	t := &Transfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransferNumber:    transferNumber,
		SourceBranchID:    sourceBranchID,
		DestBranchID:      destBranchID,
		Kind:              kind,
		Status:            TransferStatusDraft,
		CreatedByID:       createdByID,
		Lines:             make([]TransferLine, 0),
	}

	t.AddDomainEvent(NewTransferCreatedEvent(t))

	return t, nil
}

// AddLine adds an item line while the transfer is in draft
func (t *Transfer) AddLine(itemID uuid.UUID, quantity decimal.Decimal, unit string) error {
	if t.Status != TransferStatusDraft {
		return shared.ErrInvalidState
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	for _, line := range t.Lines {
		if line.ItemID == itemID {
			return shared.NewDomainError("DUPLICATE_ITEM", "Item already exists in transfer")
		}
	}

	t.Lines = append(t.Lines, TransferLine{
		BaseEntity:   shared.NewBaseEntity(),
		TransferID:   t.ID,
		ItemID:       itemID,
		Unit:         unit,
		RequestedQty: quantity,
	})
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// MarkSent freezes the sent quantities and the unit cost each line leaves the
// source at. The caller performs the corresponding ledger debits in the same
// transaction; costs is keyed by item ID and holds the source's
// weighted-average cost before the debit.
func (t *Transfer) MarkSent(costs map[uuid.UUID]costing.DualCost) error {
	if !t.Status.CanTransitionTo(TransferStatusSent) {
		return shared.ErrInvalidState
	}
	if len(t.Lines) == 0 {
		return shared.NewDomainError("EMPTY_TRANSFER", "Transfer has no lines")
	}

	for i := range t.Lines {
		cost, ok := costs[t.Lines[i].ItemID]
		if !ok {
			return shared.NewDomainError("MISSING_COST", "No sent cost supplied for item")
		}
		t.Lines[i].SentQty = t.Lines[i].RequestedQty
		t.Lines[i].UnitCostForeign = cost.Foreign
		t.Lines[i].UnitCostBase = cost.Base
	}

	now := time.Now()
	t.Status = TransferStatusSent
	t.SentAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferSentEvent(t))

	return nil
}

// MarkReceived records the quantities that arrived at the destination.
// received is keyed by item ID; a missing entry means the full sent quantity
// arrived. A received quantity above the sent quantity is rejected. Any
// shortfall stays on the line and the caller writes it off at the source.
func (t *Transfer) MarkReceived(received map[uuid.UUID]decimal.Decimal) error {
	if !t.Status.CanTransitionTo(TransferStatusReceived) {
		return shared.ErrInvalidState
	}

	for i := range t.Lines {
		qty, ok := received[t.Lines[i].ItemID]
		if !ok {
			qty = t.Lines[i].SentQty
		}
		if qty.IsNegative() || qty.GreaterThan(t.Lines[i].SentQty) {
			return shared.ErrInvalidReceivedQuantity
		}
		t.Lines[i].ReceivedQty = qty
	}

	now := time.Now()
	t.Status = TransferStatusReceived
	t.ReceivedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferReceivedEvent(t))

	return nil
}

// Cancel abandons the transfer. Allowed while draft or sent; cancelling an
// already cancelled transfer is a no-op. If the transfer was sent, the caller
// credits the sent quantities back to the source in the same transaction so
// stock is never left debited with no destination credit.
func (t *Transfer) Cancel() error {
	if t.Status == TransferStatusCancelled {
		return nil
	}
	if !t.Status.CanTransitionTo(TransferStatusCancelled) {
		return shared.ErrInvalidState
	}

	now := time.Now()
	t.Status = TransferStatusCancelled
	t.CancelledAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCancelledEvent(t))

	return nil
}

// WasSent reports whether stock has left the source branch
func (t *Transfer) WasSent() bool {
	return t.SentAt != nil
}
