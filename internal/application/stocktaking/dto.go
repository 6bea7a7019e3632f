package stocktaking

import (
	"time"

	"github.com/foodworks/backend/internal/domain/stocktaking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateStockTakingRequest is the request to open a draft count. The expected
// quantities are snapshotted from the ledger, not supplied by the caller.
type CreateStockTakingRequest struct {
	BranchID uuid.UUID   `json:"branch_id" binding:"required"`
	Kind     string      `json:"kind" binding:"required,oneof=INGREDIENT PRODUCT"`
	ItemIDs  []uuid.UUID `json:"item_ids" binding:"required,min=1"`
}

// CountedLineRequest is one physically counted item
type CountedLineRequest struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	CountedQty decimal.Decimal `json:"counted_qty"`
}

// CompleteStockTakingRequest is the request to close a count. Items not
// listed are taken as matching the snapshot.
type CompleteStockTakingRequest struct {
	Lines []CountedLineRequest `json:"lines" binding:"dive"`
}

// StockTakingLineResponse is the response representation of a count line
type StockTakingLineResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ExpectedQty decimal.Decimal `json:"expected_qty"`
	CountedQty  decimal.Decimal `json:"counted_qty"`
	Counted     bool            `json:"counted"`
	Delta       decimal.Decimal `json:"delta"`
}

// StockTakingResponse is the response representation of a count document
type StockTakingResponse struct {
	ID           uuid.UUID                 `json:"id"`
	TakingNumber string                    `json:"taking_number"`
	BranchID     uuid.UUID                 `json:"branch_id"`
	Kind         string                    `json:"kind"`
	Status       string                    `json:"status"`
	StartedAt    *time.Time                `json:"started_at,omitempty"`
	CompletedAt  *time.Time                `json:"completed_at,omitempty"`
	CancelledAt  *time.Time                `json:"cancelled_at,omitempty"`
	Lines        []StockTakingLineResponse `json:"lines"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// ToStockTakingResponse converts a StockTaking to a StockTakingResponse
func ToStockTakingResponse(st *stocktaking.StockTaking) StockTakingResponse {
	lines := make([]StockTakingLineResponse, 0, len(st.Lines))
	for i := range st.Lines {
		line := &st.Lines[i]
		lines = append(lines, StockTakingLineResponse{
			ItemID:      line.ItemID,
			ExpectedQty: line.ExpectedQty,
			CountedQty:  line.CountedQty,
			Counted:     line.Counted,
			Delta:       line.Delta(),
		})
	}
	return StockTakingResponse{
		ID:           st.ID,
		TakingNumber: st.TakingNumber,
		BranchID:     st.BranchID,
		Kind:         st.Kind.String(),
		Status:       st.Status.String(),
		StartedAt:    st.StartedAt,
		CompletedAt:  st.CompletedAt,
		CancelledAt:  st.CancelledAt,
		Lines:        lines,
		CreatedAt:    st.CreatedAt,
	}
}
