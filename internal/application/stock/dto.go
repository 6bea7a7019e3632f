package stock

import (
	"time"

	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditRequest is the request to credit stock
type CreditRequest struct {
	BranchID        uuid.UUID       `json:"branch_id" binding:"required"`
	ItemID          uuid.UUID       `json:"item_id" binding:"required"`
	Kind            string          `json:"kind" binding:"required,oneof=INGREDIENT PRODUCT"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitCostForeign decimal.Decimal `json:"unit_cost_foreign" binding:"required"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	MovementType    string          `json:"movement_type" binding:"required"`
	SourceType      string          `json:"source_type" binding:"required"`
	SourceID        string          `json:"source_id" binding:"required"`
	Reason          string          `json:"reason"`
	Date            time.Time       `json:"date"`
}

// DebitRequest is the request to debit stock
type DebitRequest struct {
	BranchID     uuid.UUID       `json:"branch_id" binding:"required"`
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	Kind         string          `json:"kind" binding:"required,oneof=INGREDIENT PRODUCT"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	MovementType string          `json:"movement_type" binding:"required"`
	SourceType   string          `json:"source_type" binding:"required"`
	SourceID     string          `json:"source_id" binding:"required"`
	Reason       string          `json:"reason"`
	Date         time.Time       `json:"date"`
}

// AdjustRequest is the request to apply a signed reconciliation delta
type AdjustRequest struct {
	BranchID   uuid.UUID       `json:"branch_id" binding:"required"`
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	Kind       string          `json:"kind" binding:"required,oneof=INGREDIENT PRODUCT"`
	Delta      decimal.Decimal `json:"delta" binding:"required"`
	SourceType string          `json:"source_type" binding:"required"`
	SourceID   string          `json:"source_id" binding:"required"`
	Reason     string          `json:"reason"`
	Date       time.Time       `json:"date"`
}

// BalanceResponse is the response representation of a stock balance
type BalanceResponse struct {
	ID              uuid.UUID       `json:"id"`
	BranchID        uuid.UUID       `json:"branch_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	Kind            string          `json:"kind"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCostForeign decimal.Decimal `json:"unit_cost_foreign"`
	UnitCostBase    decimal.Decimal `json:"unit_cost_base"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToBalanceResponse converts a StockBalance to a BalanceResponse
func ToBalanceResponse(b *stock.StockBalance) BalanceResponse {
	return BalanceResponse{
		ID:              b.ID,
		BranchID:        b.BranchID,
		ItemID:          b.ItemID,
		Kind:            b.Kind.String(),
		Quantity:        b.Quantity,
		UnitCostForeign: b.UnitCostForeign,
		UnitCostBase:    b.UnitCostBase,
		UpdatedAt:       b.UpdatedAt,
	}
}

// BranchValueResponse reports the total book value of stock held at a branch
type BranchValueResponse struct {
	BranchID       uuid.UUID       `json:"branch_id"`
	Kind           string          `json:"kind"`
	TotalValueBase decimal.Decimal `json:"total_value_base"`
}

// MovementResponse is the response representation of a movement
type MovementResponse struct {
	ID              uuid.UUID       `json:"id"`
	BranchID        uuid.UUID       `json:"branch_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	Kind            string          `json:"kind"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	SignedDelta     decimal.Decimal `json:"signed_delta"`
	UnitCostForeign decimal.Decimal `json:"unit_cost_foreign"`
	UnitCostBase    decimal.Decimal `json:"unit_cost_base"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	SourceType      string          `json:"source_type"`
	SourceID        string          `json:"source_id"`
	Reason          string          `json:"reason,omitempty"`
	ActorID         uuid.UUID       `json:"actor_id"`
	MovementDate    time.Time       `json:"movement_date"`
}

// ToMovementResponse converts a Movement to a MovementResponse
func ToMovementResponse(m *stock.Movement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		BranchID:        m.BranchID,
		ItemID:          m.ItemID,
		Kind:            m.Kind.String(),
		MovementType:    m.MovementType.String(),
		Quantity:        m.Quantity,
		SignedDelta:     m.SignedDelta(),
		UnitCostForeign: m.UnitCostForeign,
		UnitCostBase:    m.UnitCostBase,
		BalanceAfter:    m.BalanceAfter,
		SourceType:      m.SourceType.String(),
		SourceID:        m.SourceID,
		Reason:          m.Reason,
		ActorID:         m.ActorID,
		MovementDate:    m.MovementDate,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []stock.Movement) []MovementResponse {
	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses
}

// MovementListFilter carries query options for listing movements
type MovementListFilter struct {
	BranchID uuid.UUID  `form:"branch_id" binding:"required"`
	ItemID   *uuid.UUID `form:"item_id"`
	Kind     string     `form:"kind"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}
