package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentLineRequest is one shipped product line
type ShipmentLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// ConfirmShipmentRequest debits the shipped products against a sale document
type ConfirmShipmentRequest struct {
	BranchID uuid.UUID             `json:"branch_id" binding:"required"`
	SaleRef  string                `json:"sale_ref" binding:"required"`
	Lines    []ShipmentLineRequest `json:"lines" binding:"required,min=1,dive"`
	Date     time.Time             `json:"date" time_format:"2006-01-02"`
}

// ReturnLineRequest is one returned product line. The unit cost is the cost
// the goods originally shipped at, supplied by the sales document.
type ReturnLineRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitCostForeign decimal.Decimal `json:"unit_cost_foreign" binding:"required"`
}

// AcceptReturnRequest credits returned products against a return document
type AcceptReturnRequest struct {
	BranchID     uuid.UUID           `json:"branch_id" binding:"required"`
	ReturnRef    string              `json:"return_ref" binding:"required"`
	Lines        []ReturnLineRequest `json:"lines" binding:"required,min=1,dive"`
	ExchangeRate decimal.Decimal     `json:"exchange_rate"`
	Date         time.Time           `json:"date" time_format:"2006-01-02"`
}
