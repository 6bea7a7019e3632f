package production

import (
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProductionBatch = "ProductionBatch"

// Event type constants
const (
	EventTypeBatchPlanned   = "ProductionBatchPlanned"
	EventTypeBatchStarted   = "ProductionBatchStarted"
	EventTypeBatchCompleted = "ProductionBatchCompleted"
	EventTypeBatchCancelled = "ProductionBatchCancelled"
)

// BatchPlannedEvent is raised when a production batch is planned
type BatchPlannedEvent struct {
	shared.BaseDomainEvent
	BatchNumber     string          `json:"batch_number"`
	BranchID        uuid.UUID       `json:"branch_id"`
	RecipeVersionID uuid.UUID       `json:"recipe_version_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	PlannedQty      decimal.Decimal `json:"planned_qty"`
}

// NewBatchPlannedEvent creates a new BatchPlannedEvent
func NewBatchPlannedEvent(b *ProductionBatch) *BatchPlannedEvent {
	return &BatchPlannedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchPlanned, AggregateTypeProductionBatch, b.ID),
		BatchNumber:     b.BatchNumber,
		BranchID:        b.BranchID,
		RecipeVersionID: b.RecipeVersionID,
		ProductID:       b.ProductID,
		PlannedQty:      b.PlannedQty,
	}
}

// BatchStartedEvent is raised when a production batch moves into progress
type BatchStartedEvent struct {
	shared.BaseDomainEvent
	BatchNumber string    `json:"batch_number"`
	BranchID    uuid.UUID `json:"branch_id"`
}

// NewBatchStartedEvent creates a new BatchStartedEvent
func NewBatchStartedEvent(b *ProductionBatch) *BatchStartedEvent {
	return &BatchStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchStarted, AggregateTypeProductionBatch, b.ID),
		BatchNumber:     b.BatchNumber,
		BranchID:        b.BranchID,
	}
}

// BatchCompletedEvent is raised when a production batch is completed
type BatchCompletedEvent struct {
	shared.BaseDomainEvent
	BatchNumber           string          `json:"batch_number"`
	BranchID              uuid.UUID       `json:"branch_id"`
	ProductID             uuid.UUID       `json:"product_id"`
	OutputQty             decimal.Decimal `json:"output_qty"`
	OutputUnitCostForeign decimal.Decimal `json:"output_unit_cost_foreign"`
	OutputUnitCostBase    decimal.Decimal `json:"output_unit_cost_base"`
}

// NewBatchCompletedEvent creates a new BatchCompletedEvent
func NewBatchCompletedEvent(b *ProductionBatch) *BatchCompletedEvent {
	return &BatchCompletedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeBatchCompleted, AggregateTypeProductionBatch, b.ID),
		BatchNumber:           b.BatchNumber,
		BranchID:              b.BranchID,
		ProductID:             b.ProductID,
		OutputQty:             b.OutputQty,
		OutputUnitCostForeign: b.OutputUnitCostForeign,
		OutputUnitCostBase:    b.OutputUnitCostBase,
	}
}

// BatchCancelledEvent is raised when a production batch is cancelled
type BatchCancelledEvent struct {
	shared.BaseDomainEvent
	BatchNumber string    `json:"batch_number"`
	BranchID    uuid.UUID `json:"branch_id"`
}

// NewBatchCancelledEvent creates a new BatchCancelledEvent
func NewBatchCancelledEvent(b *ProductionBatch) *BatchCancelledEvent {
	return &BatchCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCancelled, AggregateTypeProductionBatch, b.ID),
		BatchNumber:     b.BatchNumber,
		BranchID:        b.BranchID,
	}
}
