package production

import (
	"time"

	"github.com/foodworks/backend/internal/domain/catalog"
	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the status of a production batch
type BatchStatus string

const (
	BatchStatusPlanned    BatchStatus = "PLANNED"
	BatchStatusInProgress BatchStatus = "IN_PROGRESS"
	BatchStatusCompleted  BatchStatus = "COMPLETED"
	BatchStatusCancelled  BatchStatus = "CANCELLED"
)

// IsValid checks if the status is a valid BatchStatus
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusPlanned, BatchStatusInProgress, BatchStatusCompleted, BatchStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s BatchStatus) CanTransitionTo(target BatchStatus) bool {
	switch s {
	case BatchStatusPlanned:
		return target == BatchStatusInProgress || target == BatchStatusCancelled
	case BatchStatusInProgress:
		return target == BatchStatusCompleted || target == BatchStatusCancelled
	case BatchStatusCompleted, BatchStatusCancelled:
		return false // Terminal states
	}
	return false
}

// BatchLineType distinguishes planned consumption from what was actually used
type BatchLineType string

const (
	BatchLineTypePlanned BatchLineType = "PLANNED"
	BatchLineTypeActual  BatchLineType = "ACTUAL"
)

// BatchLine is one ingredient line of a production batch. Planned lines are
// computed from the recipe at creation; actual lines are recorded at
// completion and carry the cost the ingredients were consumed at.
type BatchLine struct {
	shared.BaseEntity
	BatchID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineType        BatchLineType   `gorm:"type:varchar(10);not null"`
	IngredientID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	UnitCostForeign decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCostBase    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (BatchLine) TableName() string {
	return "production_batch_lines"
}

// TotalCostForeign returns quantity * unit cost in the foreign currency
func (l *BatchLine) TotalCostForeign() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCostForeign)
}

// TotalCostBase returns quantity * unit cost in the base currency
func (l *BatchLine) TotalCostBase() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCostBase)
}

// ActualLine is the caller-supplied record of what a batch actually consumed
type ActualLine struct {
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
	Unit         string
}

// ProductionBatch represents one production run of a recipe at a branch.
// It is the aggregate root for production operations.
type ProductionBatch struct {
	shared.BaseAggregateRoot
	BatchNumber           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	BranchID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	RecipeVersionID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID             uuid.UUID       `gorm:"type:uuid;not null"`
	Status                BatchStatus     `gorm:"type:varchar(20);not null;index"`
	PlannedQty            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OutputQty             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutputUnitCostForeign decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutputUnitCostBase    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StartedAt             *time.Time      `gorm:"type:timestamptz"`
	CompletedAt           *time.Time      `gorm:"type:timestamptz"`
	CancelledAt           *time.Time      `gorm:"type:timestamptz"`
	CreatedByID           uuid.UUID       `gorm:"type:uuid;not null"`
	Lines                 []BatchLine     `gorm:"foreignKey:BatchID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductionBatch) TableName() string {
	return "production_batches"
}

// NewProductionBatch plans a new batch from a recipe version. Planned
// consumption lines are scaled from the recipe's per-unit quantities; the
// ledger is not touched until completion.
func NewProductionBatch(
	branchID uuid.UUID,
	batchNumber string,
	recipe *catalog.RecipeVersion,
	plannedQty decimal.Decimal,
	createdByID uuid.UUID,
) (*ProductionBatch, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if recipe == nil {
		return nil, shared.NewDomainError("INVALID_RECIPE", "Recipe version cannot be nil")
	}
	if plannedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}

	scaled, err := recipe.ScaleLines(plannedQty)
	if err != nil {
		return nil, err
	}

	batch := &ProductionBatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchNumber:       batchNumber,
		BranchID:          branchID,
		RecipeVersionID:   recipe.ID,
		ProductID:         recipe.ProductID,
		Status:            BatchStatusPlanned,
		PlannedQty:        plannedQty,
		OutputQty:         decimal.Zero,
		CreatedByID:       createdByID,
		Lines:             make([]BatchLine, 0, len(scaled)),
	}

	for _, line := range scaled {
		batch.Lines = append(batch.Lines, BatchLine{
			BaseEntity:   shared.NewBaseEntity(),
			BatchID:      batch.ID,
			LineType:     BatchLineTypePlanned,
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
		})
	}

	batch.AddDomainEvent(NewBatchPlannedEvent(batch))

	return batch, nil
}

// PlannedLines returns the planned consumption lines
func (b *ProductionBatch) PlannedLines() []BatchLine {
	return b.linesOfType(BatchLineTypePlanned)
}

// ActualLines returns the recorded actual consumption lines
func (b *ProductionBatch) ActualLines() []BatchLine {
	return b.linesOfType(BatchLineTypeActual)
}

func (b *ProductionBatch) linesOfType(lineType BatchLineType) []BatchLine {
	lines := make([]BatchLine, 0, len(b.Lines))
	for _, line := range b.Lines {
		if line.LineType == lineType {
			lines = append(lines, line)
		}
	}
	return lines
}

// Start moves the batch into progress. Ingredient availability is checked by
// the caller beforehand as an advisory read; stock is only deducted at
// completion.
func (b *ProductionBatch) Start() error {
	if !b.Status.CanTransitionTo(BatchStatusInProgress) {
		return shared.ErrInvalidState
	}

	now := time.Now()
	b.Status = BatchStatusInProgress
	b.StartedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchStartedEvent(b))

	return nil
}

// Complete records the actual consumption and the produced output. Each actual
// line carries the weighted-average cost its ingredient was consumed at; the
// output unit cost is the total consumed cost divided by the output quantity.
// The caller performs the corresponding ledger debits and credit in the same
// transaction.
func (b *ProductionBatch) Complete(actualLines []BatchLine, outputQty decimal.Decimal) error {
	if !b.Status.CanTransitionTo(BatchStatusCompleted) {
		return shared.ErrInvalidState
	}
	if outputQty.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if len(actualLines) == 0 {
		return shared.NewDomainError("EMPTY_CONSUMPTION", "Completion requires at least one consumption line")
	}

	totalForeign := decimal.Zero
	totalBase := decimal.Zero
	for i := range actualLines {
		actualLines[i].LineType = BatchLineTypeActual
		actualLines[i].BatchID = b.ID
		totalForeign = totalForeign.Add(actualLines[i].TotalCostForeign())
		totalBase = totalBase.Add(actualLines[i].TotalCostBase())
	}

	now := time.Now()
	b.Lines = append(b.Lines, actualLines...)
	b.OutputQty = outputQty
	b.OutputUnitCostForeign = costing.OutputUnitCost(totalForeign, outputQty)
	b.OutputUnitCostBase = costing.OutputUnitCost(totalBase, outputQty)
	b.Status = BatchStatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchCompletedEvent(b))

	return nil
}

// OutputCost returns the derived output unit cost pair
func (b *ProductionBatch) OutputCost() costing.DualCost {
	return costing.DualCost{Foreign: b.OutputUnitCostForeign, Base: b.OutputUnitCostBase}
}

// Cancel abandons the batch. Allowed while planned or in progress; cancelling
// an already cancelled batch is a no-op. There is no ledger effect since
// consumption only happens at completion.
func (b *ProductionBatch) Cancel() error {
	if b.Status == BatchStatusCancelled {
		return nil
	}
	if !b.Status.CanTransitionTo(BatchStatusCancelled) {
		return shared.ErrInvalidState
	}

	now := time.Now()
	b.Status = BatchStatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchCancelledEvent(b))

	return nil
}
