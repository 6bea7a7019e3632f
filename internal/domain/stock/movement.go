package stock

import (
	"time"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement
type MovementType string

const (
	// MovementTypeReceipt represents stock received from a supplier
	MovementTypeReceipt MovementType = "RECEIPT"
	// MovementTypeWriteOff represents stock written off (spoilage, transit loss)
	MovementTypeWriteOff MovementType = "WRITE_OFF"
	// MovementTypeProductionIn represents finished goods accrued by a production batch
	MovementTypeProductionIn MovementType = "PRODUCTION_IN"
	// MovementTypeProductionConsumption represents ingredients consumed by a production batch
	MovementTypeProductionConsumption MovementType = "PRODUCTION_CONSUMPTION"
	// MovementTypeTransferIn represents stock received from another branch
	MovementTypeTransferIn MovementType = "TRANSFER_IN"
	// MovementTypeTransferOut represents stock sent to another branch
	MovementTypeTransferOut MovementType = "TRANSFER_OUT"
	// MovementTypeSale represents finished goods shipped on a confirmed sale
	MovementTypeSale MovementType = "SALE"
	// MovementTypeReturn represents finished goods credited back on an approved return
	MovementTypeReturn MovementType = "RETURN"
	// MovementTypeAdjustmentIncrease represents a positive count-reconciliation adjustment
	MovementTypeAdjustmentIncrease MovementType = "ADJUSTMENT_INCREASE"
	// MovementTypeAdjustmentDecrease represents a negative count-reconciliation adjustment
	MovementTypeAdjustmentDecrease MovementType = "ADJUSTMENT_DECREASE"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt,
		MovementTypeWriteOff,
		MovementTypeProductionIn,
		MovementTypeProductionConsumption,
		MovementTypeTransferIn,
		MovementTypeTransferOut,
		MovementTypeSale,
		MovementTypeReturn,
		MovementTypeAdjustmentIncrease,
		MovementTypeAdjustmentDecrease:
		return true
	}
	return false
}

// IsInbound returns true if this movement type increases the balance
func (t MovementType) IsInbound() bool {
	switch t {
	case MovementTypeReceipt,
		MovementTypeProductionIn,
		MovementTypeTransferIn,
		MovementTypeReturn,
		MovementTypeAdjustmentIncrease:
		return true
	}
	return false
}

// IsOutbound returns true if this movement type decreases the balance
func (t MovementType) IsOutbound() bool {
	return t.IsValid() && !t.IsInbound()
}

// SourceType identifies the document type that caused a movement
type SourceType string

const (
	// SourceTypeProductionBatch is a production batch document
	SourceTypeProductionBatch SourceType = "PRODUCTION_BATCH"
	// SourceTypeTransfer is an inter-branch transfer document
	SourceTypeTransfer SourceType = "TRANSFER"
	// SourceTypeStockTaking is a physical count document
	SourceTypeStockTaking SourceType = "STOCK_TAKING"
	// SourceTypeSale is a sales document
	SourceTypeSale SourceType = "SALE"
	// SourceTypeSalesReturn is a sales return document
	SourceTypeSalesReturn SourceType = "SALES_RETURN"
	// SourceTypeSupplierReceipt is a raw material receipt from a supplier
	SourceTypeSupplierReceipt SourceType = "SUPPLIER_RECEIPT"
	// SourceTypeManualAdjustment is a manual correction
	SourceTypeManualAdjustment SourceType = "MANUAL_ADJUSTMENT"
)

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeProductionBatch,
		SourceTypeTransfer,
		SourceTypeStockTaking,
		SourceTypeSale,
		SourceTypeSalesReturn,
		SourceTypeSupplierReceipt,
		SourceTypeManualAdjustment:
		return true
	}
	return false
}

// Movement is an immutable ledger entry recording one quantity/cost change and
// its cause. Once created, movements are never modified - corrections are made
// with new movements. The sum of signed deltas for a (branch, item, kind) key
// always reconciles to the current StockBalance quantity.
type Movement struct {
	shared.BaseEntity
	BranchID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_key,priority:1"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_key,priority:2"`
	Kind            ItemKind        `gorm:"type:varchar(20);not null;index:idx_movement_key,priority:3"`
	MovementType    MovementType    `gorm:"type:varchar(30);not null;index:idx_movement_type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive, direction from MovementType
	UnitCostForeign decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Cost per unit at movement time, foreign currency
	UnitCostBase    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Cost per unit at movement time, base currency
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Balance quantity snapshot after the movement
	SourceType      SourceType      `gorm:"type:varchar(30);not null;index:idx_movement_source"`
	SourceID        string          `gorm:"type:varchar(50);not null;index:idx_movement_source"`
	Reason          string          `gorm:"type:varchar(255)"`
	ActorID         uuid.UUID       `gorm:"type:uuid;not null"`
	MovementDate    time.Time       `gorm:"type:timestamptz;not null;index:idx_movement_key,priority:4"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "stock_movements"
}

// NewMovement creates a new movement record
func NewMovement(
	branchID, itemID uuid.UUID,
	kind ItemKind,
	movementType MovementType,
	quantity decimal.Decimal,
	unitCostForeign, unitCostBase decimal.Decimal,
	balanceAfter decimal.Decimal,
	sourceType SourceType,
	sourceID string,
	actorID uuid.UUID,
) (*Movement, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.IsNegative() || quantity.IsZero() {
		return nil, shared.ErrInvalidQuantity
	}
	if unitCostForeign.IsNegative() || unitCostBase.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}
	if sourceID == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_ID", "Source ID cannot be empty")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}

	return &Movement{
		BaseEntity:      shared.NewBaseEntity(),
		BranchID:        branchID,
		ItemID:          itemID,
		Kind:            kind,
		MovementType:    movementType,
		Quantity:        quantity,
		UnitCostForeign: unitCostForeign,
		UnitCostBase:    unitCostBase,
		BalanceAfter:    balanceAfter,
		SourceType:      sourceType,
		SourceID:        sourceID,
		ActorID:         actorID,
		MovementDate:    time.Now(),
	}, nil
}

// WithReason sets the reason for the movement
func (m *Movement) WithReason(reason string) *Movement {
	m.Reason = reason
	return m
}

// WithMovementDate sets the movement date
func (m *Movement) WithMovementDate(date time.Time) *Movement {
	m.MovementDate = date
	return m
}

// SignedDelta returns the quantity with sign based on movement type:
// positive for inbound movements, negative for outbound
func (m *Movement) SignedDelta() decimal.Decimal {
	if m.MovementType.IsOutbound() {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// TotalCostForeign returns quantity * unit cost in the foreign currency
func (m *Movement) TotalCostForeign() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCostForeign)
}

// TotalCostBase returns quantity * unit cost in the base currency
func (m *Movement) TotalCostBase() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCostBase)
}
