package transfer

import (
	"time"

	"github.com/foodworks/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferLineRequest is one requested item line
type TransferLineRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Unit     string          `json:"unit"`
}

// CreateTransferRequest is the request to create a draft transfer
type CreateTransferRequest struct {
	SourceBranchID uuid.UUID             `json:"source_branch_id" binding:"required"`
	DestBranchID   uuid.UUID             `json:"dest_branch_id" binding:"required"`
	Kind           string                `json:"kind" binding:"required,oneof=INGREDIENT PRODUCT"`
	Lines          []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReceivedLineRequest is one received item line
type ReceivedLineRequest struct {
	ItemID      uuid.UUID       `json:"item_id" binding:"required"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
}

// ReceiveTransferRequest is the request to receive a sent transfer. Lines not
// listed are taken as received in full.
type ReceiveTransferRequest struct {
	Lines []ReceivedLineRequest `json:"lines" binding:"dive"`
}

// TransferLineResponse is the response representation of a transfer line
type TransferLineResponse struct {
	ItemID          uuid.UUID       `json:"item_id"`
	Unit            string          `json:"unit"`
	RequestedQty    decimal.Decimal `json:"requested_qty"`
	SentQty         decimal.Decimal `json:"sent_qty"`
	ReceivedQty     decimal.Decimal `json:"received_qty"`
	UnitCostForeign decimal.Decimal `json:"unit_cost_foreign"`
	UnitCostBase    decimal.Decimal `json:"unit_cost_base"`
}

// TransferResponse is the response representation of a transfer
type TransferResponse struct {
	ID             uuid.UUID              `json:"id"`
	TransferNumber string                 `json:"transfer_number"`
	SourceBranchID uuid.UUID              `json:"source_branch_id"`
	DestBranchID   uuid.UUID              `json:"dest_branch_id"`
	Kind           string                 `json:"kind"`
	Status         string                 `json:"status"`
	SentAt         *time.Time             `json:"sent_at,omitempty"`
	ReceivedAt     *time.Time             `json:"received_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	Lines          []TransferLineResponse `json:"lines"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ToTransferResponse converts a Transfer to a TransferResponse
func ToTransferResponse(t *transfer.Transfer) TransferResponse {
	lines := make([]TransferLineResponse, 0, len(t.Lines))
	for _, line := range t.Lines {
		lines = append(lines, TransferLineResponse{
			ItemID:          line.ItemID,
			Unit:            line.Unit,
			RequestedQty:    line.RequestedQty,
			SentQty:         line.SentQty,
			ReceivedQty:     line.ReceivedQty,
			UnitCostForeign: line.UnitCostForeign,
			UnitCostBase:    line.UnitCostBase,
		})
	}
	return TransferResponse{
		ID:             t.ID,
		TransferNumber: t.TransferNumber,
		SourceBranchID: t.SourceBranchID,
		DestBranchID:   t.DestBranchID,
		Kind:           t.Kind.String(),
		Status:         t.Status.String(),
		SentAt:         t.SentAt,
		ReceivedAt:     t.ReceivedAt,
		CancelledAt:    t.CancelledAt,
		Lines:          lines,
		CreatedAt:      t.CreatedAt,
	}
}
