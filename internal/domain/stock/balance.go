package stock

import (
	"time"

	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBalance tracks the quantity and weighted-average unit cost of one item
// at one branch. It is the aggregate root for ledger mutations; the composite
// identifier is BranchID + ItemID + Kind.
type StockBalance struct {
	shared.BaseAggregateRoot
	BranchID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_balance_key,priority:1"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_balance_key,priority:2"`
	Kind            ItemKind        `gorm:"type:varchar(20);not null;uniqueIndex:idx_stock_balance_key,priority:3"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCostForeign decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Moving weighted average, foreign currency
	UnitCostBase    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Moving weighted average, base currency
}

// TableName returns the table name for GORM
func (StockBalance) TableName() string {
	return "stock_balances"
}

// NewStockBalance creates an empty balance for a branch-item-kind combination
func NewStockBalance(branchID, itemID uuid.UUID, kind ItemKind) (*StockBalance, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}

	return &StockBalance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchID:          branchID,
		ItemID:            itemID,
		Kind:              kind,
		Quantity:          decimal.Zero,
		UnitCostForeign:   decimal.Zero,
		UnitCostBase:      decimal.Zero,
	}, nil
}

// UnitCost returns the current weighted-average unit cost pair
func (b *StockBalance) UnitCost() costing.DualCost {
	return costing.DualCost{Foreign: b.UnitCostForeign, Base: b.UnitCostBase}
}

// IsEmpty returns true if the balance holds no stock
func (b *StockBalance) IsEmpty() bool {
	return b.Quantity.IsZero()
}

// CanFulfill returns true if the balance can cover the requested quantity
func (b *StockBalance) CanFulfill(quantity decimal.Decimal) bool {
	return b.Quantity.GreaterThanOrEqual(quantity)
}

// Credit increases the balance and recalculates the weighted-average cost on
// both currency legs. Inbound movements are the only place cost is recomputed.
func (b *StockBalance) Credit(quantity decimal.Decimal, unitCost costing.DualCost) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if unitCost.Foreign.IsNegative() || unitCost.Base.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	oldCost := b.UnitCost()
	newCost := costing.AverageDual(b.Quantity, oldCost, quantity, unitCost)

	b.Quantity = b.Quantity.Add(quantity)
	b.UnitCostForeign = newCost.Foreign
	b.UnitCostBase = newCost.Base
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewStockCreditedEvent(b, quantity, newCost))
	if !oldCost.Foreign.Equal(newCost.Foreign) {
		b.AddDomainEvent(NewStockCostChangedEvent(b, oldCost, newCost))
	}

	return nil
}

// Debit decreases the balance. The weighted-average cost is left unchanged;
// the outgoing stock carries the current average. When the balance reaches
// zero the cost fields are reset, since cost is undefined without stock.
func (b *StockBalance) Debit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if b.Quantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	b.Quantity = b.Quantity.Sub(quantity)
	if b.Quantity.IsZero() {
		b.UnitCostForeign = decimal.Zero
		b.UnitCostBase = decimal.Zero
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewStockDebitedEvent(b, quantity))

	return nil
}

// Adjust applies a signed count-reconciliation delta. A positive delta credits
// stock at the current average cost; a negative delta behaves like a debit,
// except that driving the balance negative is reported as an integrity
// violation because the ledger and physical reality have diverged beyond what
// an adjustment can express.
func (b *StockBalance) Adjust(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_DELTA", "Adjustment delta cannot be zero")
	}

	if delta.IsNegative() {
		shortfall := delta.Neg()
		if b.Quantity.LessThan(shortfall) {
			return shared.ErrIntegrityViolation
		}
		b.Quantity = b.Quantity.Sub(shortfall)
		if b.Quantity.IsZero() {
			b.UnitCostForeign = decimal.Zero
			b.UnitCostBase = decimal.Zero
		}
	} else {
		// Surplus is valued at the current average; an adjustment carries no
		// cost of its own.
		b.Quantity = b.Quantity.Add(delta)
	}

	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewStockAdjustedEvent(b, delta))

	return nil
}
