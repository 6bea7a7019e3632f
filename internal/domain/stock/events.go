package stock

import (
	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeStockBalance = "StockBalance"

// Event type constants
const (
	EventTypeStockCredited    = "StockCredited"
	EventTypeStockDebited     = "StockDebited"
	EventTypeStockAdjusted    = "StockAdjusted"
	EventTypeStockCostChanged = "StockCostChanged"
)

// StockCreditedEvent is raised when stock is credited to a balance
type StockCreditedEvent struct {
	shared.BaseDomainEvent
	BranchID        uuid.UUID       `json:"branch_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	Kind            ItemKind        `json:"kind"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCostForeign decimal.Decimal `json:"unit_cost_foreign"`
	UnitCostBase    decimal.Decimal `json:"unit_cost_base"`
}

// NewStockCreditedEvent creates a new StockCreditedEvent
func NewStockCreditedEvent(b *StockBalance, quantity decimal.Decimal, cost costing.DualCost) *StockCreditedEvent {
	return &StockCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCredited, AggregateTypeStockBalance, b.ID),
		BranchID:        b.BranchID,
		ItemID:          b.ItemID,
		Kind:            b.Kind,
		Quantity:        quantity,
		UnitCostForeign: cost.Foreign,
		UnitCostBase:    cost.Base,
	}
}

// StockDebitedEvent is raised when stock is debited from a balance
type StockDebitedEvent struct {
	shared.BaseDomainEvent
	BranchID uuid.UUID       `json:"branch_id"`
	ItemID   uuid.UUID       `json:"item_id"`
	Kind     ItemKind        `json:"kind"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewStockDebitedEvent creates a new StockDebitedEvent
func NewStockDebitedEvent(b *StockBalance, quantity decimal.Decimal) *StockDebitedEvent {
	return &StockDebitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDebited, AggregateTypeStockBalance, b.ID),
		BranchID:        b.BranchID,
		ItemID:          b.ItemID,
		Kind:            b.Kind,
		Quantity:        quantity,
	}
}

// StockAdjustedEvent is raised when a count reconciliation adjusts a balance
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	BranchID uuid.UUID       `json:"branch_id"`
	ItemID   uuid.UUID       `json:"item_id"`
	Kind     ItemKind        `json:"kind"`
	Delta    decimal.Decimal `json:"delta"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(b *StockBalance, delta decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockBalance, b.ID),
		BranchID:        b.BranchID,
		ItemID:          b.ItemID,
		Kind:            b.Kind,
		Delta:           delta,
	}
}

// StockCostChangedEvent is raised when an inbound movement changes the
// weighted-average cost
type StockCostChangedEvent struct {
	shared.BaseDomainEvent
	BranchID       uuid.UUID       `json:"branch_id"`
	ItemID         uuid.UUID       `json:"item_id"`
	Kind           ItemKind        `json:"kind"`
	OldCostForeign decimal.Decimal `json:"old_cost_foreign"`
	NewCostForeign decimal.Decimal `json:"new_cost_foreign"`
	OldCostBase    decimal.Decimal `json:"old_cost_base"`
	NewCostBase    decimal.Decimal `json:"new_cost_base"`
}

// NewStockCostChangedEvent creates a new StockCostChangedEvent
func NewStockCostChangedEvent(b *StockBalance, oldCost, newCost costing.DualCost) *StockCostChangedEvent {
	return &StockCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCostChanged, AggregateTypeStockBalance, b.ID),
		BranchID:        b.BranchID,
		ItemID:          b.ItemID,
		Kind:            b.Kind,
		OldCostForeign:  oldCost.Foreign,
		NewCostForeign:  newCost.Foreign,
		OldCostBase:     oldCost.Base,
		NewCostBase:     newCost.Base,
	}
}
