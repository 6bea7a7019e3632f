package production

import (
	"time"

	"github.com/foodworks/backend/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBatchRequest is the request to plan a production batch
type CreateBatchRequest struct {
	BranchID        uuid.UUID       `json:"branch_id" binding:"required"`
	RecipeVersionID uuid.UUID       `json:"recipe_version_id" binding:"required"`
	PlannedQty      decimal.Decimal `json:"planned_qty" binding:"required"`
}

// ActualLineRequest is one actually-consumed ingredient line
type ActualLineRequest struct {
	IngredientID uuid.UUID       `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit"`
}

// CompleteBatchRequest is the request to complete a batch
type CompleteBatchRequest struct {
	ActualLines []ActualLineRequest `json:"actual_lines" binding:"required,min=1,dive"`
	OutputQty   decimal.Decimal     `json:"output_qty" binding:"required"`
}

// BatchLineResponse is the response representation of a batch line
type BatchLineResponse struct {
	IngredientID    uuid.UUID       `json:"ingredient_id"`
	LineType        string          `json:"line_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitCostForeign decimal.Decimal `json:"unit_cost_foreign"`
	UnitCostBase    decimal.Decimal `json:"unit_cost_base"`
}

// BatchResponse is the response representation of a production batch
type BatchResponse struct {
	ID                    uuid.UUID           `json:"id"`
	BatchNumber           string              `json:"batch_number"`
	BranchID              uuid.UUID           `json:"branch_id"`
	RecipeVersionID       uuid.UUID           `json:"recipe_version_id"`
	ProductID             uuid.UUID           `json:"product_id"`
	Status                string              `json:"status"`
	PlannedQty            decimal.Decimal     `json:"planned_qty"`
	OutputQty             decimal.Decimal     `json:"output_qty"`
	OutputUnitCostForeign decimal.Decimal     `json:"output_unit_cost_foreign"`
	OutputUnitCostBase    decimal.Decimal     `json:"output_unit_cost_base"`
	StartedAt             *time.Time          `json:"started_at,omitempty"`
	CompletedAt           *time.Time          `json:"completed_at,omitempty"`
	CancelledAt           *time.Time          `json:"cancelled_at,omitempty"`
	Lines                 []BatchLineResponse `json:"lines"`
	CreatedAt             time.Time           `json:"created_at"`
}

// ToBatchResponse converts a ProductionBatch to a BatchResponse
func ToBatchResponse(b *production.ProductionBatch) BatchResponse {
	lines := make([]BatchLineResponse, 0, len(b.Lines))
	for _, line := range b.Lines {
		lines = append(lines, BatchLineResponse{
			IngredientID:    line.IngredientID,
			LineType:        string(line.LineType),
			Quantity:        line.Quantity,
			Unit:            line.Unit,
			UnitCostForeign: line.UnitCostForeign,
			UnitCostBase:    line.UnitCostBase,
		})
	}
	return BatchResponse{
		ID:                    b.ID,
		BatchNumber:           b.BatchNumber,
		BranchID:              b.BranchID,
		RecipeVersionID:       b.RecipeVersionID,
		ProductID:             b.ProductID,
		Status:                b.Status.String(),
		PlannedQty:            b.PlannedQty,
		OutputQty:             b.OutputQty,
		OutputUnitCostForeign: b.OutputUnitCostForeign,
		OutputUnitCostBase:    b.OutputUnitCostBase,
		StartedAt:             b.StartedAt,
		CompletedAt:           b.CompletedAt,
		CancelledAt:           b.CancelledAt,
		Lines:                 lines,
		CreatedAt:             b.CreatedAt,
	}
}

// AvailabilityShortage reports a planned ingredient the branch cannot cover
type AvailabilityShortage struct {
	IngredientID uuid.UUID       `json:"ingredient_id"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
}
