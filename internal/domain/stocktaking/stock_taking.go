package stocktaking

import (
	"time"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockTakingStatus represents the status of a physical count document
type StockTakingStatus string

const (
	StockTakingStatusDraft      StockTakingStatus = "DRAFT"
	StockTakingStatusInProgress StockTakingStatus = "IN_PROGRESS"
	StockTakingStatusCompleted  StockTakingStatus = "COMPLETED"
	StockTakingStatusCancelled  StockTakingStatus = "CANCELLED"
)

// IsValid checks if the status is a valid StockTakingStatus
func (s StockTakingStatus) IsValid() bool {
	switch s {
	case StockTakingStatusDraft, StockTakingStatusInProgress, StockTakingStatusCompleted, StockTakingStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of StockTakingStatus
func (s StockTakingStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s StockTakingStatus) CanTransitionTo(target StockTakingStatus) bool {
	switch s {
	case StockTakingStatusDraft:
		return target == StockTakingStatusInProgress || target == StockTakingStatusCancelled
	case StockTakingStatusInProgress:
		return target == StockTakingStatusCompleted || target == StockTakingStatusCancelled
	case StockTakingStatusCompleted, StockTakingStatusCancelled:
		return false // Terminal states
	}
	return false
}

// StockTakingLine is one item of a count document. The expected quantity is
// snapshotted from the ledger at creation; the counted quantity is what was
// physically found.
type StockTakingLine struct {
	shared.BaseEntity
	StockTakingID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null"`
	ExpectedQty   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CountedQty    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Counted       bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StockTakingLine) TableName() string {
	return "stock_taking_lines"
}

// Delta returns counted minus expected
func (l *StockTakingLine) Delta() decimal.Decimal {
	return l.CountedQty.Sub(l.ExpectedQty)
}

// HasDifference returns true if the count diverges from the ledger
func (l *StockTakingLine) HasDifference() bool {
	return l.Counted && !l.Delta().IsZero()
}

// StockTaking represents a physical inventory count at a branch. It is the
// aggregate root for reconciliation operations. Starting a count does not
// freeze the ledger; movements during the counting window fold into the
// computed deltas.
type StockTaking struct {
	shared.BaseAggregateRoot
	TakingNumber string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	BranchID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Kind         stock.ItemKind    `gorm:"type:varchar(20);not null"`
	Status       StockTakingStatus `gorm:"type:varchar(20);not null;index"`
	StartedAt    *time.Time        `gorm:"type:timestamptz"`
	CompletedAt  *time.Time        `gorm:"type:timestamptz"`
	CancelledAt  *time.Time        `gorm:"type:timestamptz"`
	CreatedByID  uuid.UUID         `gorm:"type:uuid;not null"`
	Lines        []StockTakingLine `gorm:"foreignKey:StockTakingID;references:ID"`
}

// TableName returns the table name for GORM
func (StockTaking) TableName() string {
	return "stock_takings"
}

// NewStockTaking creates a draft count document
func NewStockTaking(takingNumber string, branchID uuid.UUID, kind stock.ItemKind, createdByID uuid.UUID) (*StockTaking, error) {
	if takingNumber == "" {
		return nil, shared.NewDomainError("INVALID_TAKING_NUMBER", "Taking number cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}

	st := &StockTaking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TakingNumber:      takingNumber,
		BranchID:          branchID,
		Kind:              kind,
		Status:            StockTakingStatusDraft,
		CreatedByID:       createdByID,
		Lines:             make([]StockTakingLine, 0),
	}

	st.AddDomainEvent(NewStockTakingCreatedEvent(st))

	return st, nil
}

// AddLine snapshots an item's current ledger quantity as the expected value
func (st *StockTaking) AddLine(itemID uuid.UUID, expectedQty decimal.Decimal) error {
	if st.Status != StockTakingStatusDraft {
		return shared.ErrInvalidState
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if expectedQty.IsNegative() {
		return shared.ErrInvalidQuantity
	}
	for _, line := range st.Lines {
		if line.ItemID == itemID {
			return shared.NewDomainError("DUPLICATE_ITEM", "Item already exists in stock taking")
		}
	}

	st.Lines = append(st.Lines, StockTakingLine{
		BaseEntity:    shared.NewBaseEntity(),
		StockTakingID: st.ID,
		ItemID:        itemID,
		ExpectedQty:   expectedQty,
	})
	st.UpdatedAt = time.Now()
	st.IncrementVersion()

	return nil
}

// Start opens the counting window. A status marker only; the ledger keeps
// moving underneath.
func (st *StockTaking) Start() error {
	if !st.Status.CanTransitionTo(StockTakingStatusInProgress) {
		return shared.ErrInvalidState
	}
	if len(st.Lines) == 0 {
		return shared.NewDomainError("EMPTY_STOCK_TAKING", "Stock taking has no lines")
	}

	now := time.Now()
	st.Status = StockTakingStatusInProgress
	st.StartedAt = &now
	st.UpdatedAt = now
	st.IncrementVersion()

	st.AddDomainEvent(NewStockTakingStartedEvent(st))

	return nil
}

// MarkCompleted records the physical counts and closes the document. counted
// is keyed by item ID; a missing entry means the count matched the snapshot.
// The caller issues one ledger adjustment per non-zero delta in the same
// transaction.
func (st *StockTaking) MarkCompleted(counted map[uuid.UUID]decimal.Decimal) error {
	if !st.Status.CanTransitionTo(StockTakingStatusCompleted) {
		return shared.ErrInvalidState
	}

	for i := range st.Lines {
		qty, ok := counted[st.Lines[i].ItemID]
		if !ok {
			qty = st.Lines[i].ExpectedQty
		}
		if qty.IsNegative() {
			return shared.ErrInvalidQuantity
		}
		st.Lines[i].CountedQty = qty
		st.Lines[i].Counted = true
	}

	now := time.Now()
	st.Status = StockTakingStatusCompleted
	st.CompletedAt = &now
	st.UpdatedAt = now
	st.IncrementVersion()

	st.AddDomainEvent(NewStockTakingCompletedEvent(st))

	return nil
}

// DifferenceLines returns the lines whose count diverged from the snapshot
func (st *StockTaking) DifferenceLines() []StockTakingLine {
	lines := make([]StockTakingLine, 0)
	for _, line := range st.Lines {
		if line.HasDifference() {
			lines = append(lines, line)
		}
	}
	return lines
}

// Cancel abandons the count. Allowed before completion; cancelling an already
// cancelled document is a no-op. There is no ledger effect.
func (st *StockTaking) Cancel() error {
	if st.Status == StockTakingStatusCancelled {
		return nil
	}
	if !st.Status.CanTransitionTo(StockTakingStatusCancelled) {
		return shared.ErrInvalidState
	}

	now := time.Now()
	st.Status = StockTakingStatusCancelled
	st.CancelledAt = &now
	st.UpdatedAt = now
	st.IncrementVersion()

	st.AddDomainEvent(NewStockTakingCancelledEvent(st))

	return nil
}
