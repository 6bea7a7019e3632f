// Package costing implements the pure cost math used by the stock ledger:
// moving weighted-average unit costs and dual-currency derivation. It performs
// no I/O; exchange rates are always supplied by the caller.
package costing

import (
	"github.com/foodworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// costPrecision is the number of decimal places unit costs are rounded to.
const costPrecision = 4

// DualCost is a unit cost expressed in both the foreign and the base currency.
type DualCost struct {
	Foreign decimal.Decimal
	Base    decimal.Decimal
}

// Zero reports whether both legs are zero.
func (c DualCost) Zero() bool {
	return c.Foreign.IsZero() && c.Base.IsZero()
}

// WeightedAverage computes the moving weighted-average unit cost after an
// inbound movement:
//
//	(existingQty*existingCost + incomingQty*incomingCost) / (existingQty + incomingQty)
//
// If the combined quantity is zero the cost is undefined and zero is returned.
// Callers never pass a negative incoming quantity; outgoing movements keep the
// current average unchanged and must not call this.
func WeightedAverage(existingQty, existingCost, incomingQty, incomingCost decimal.Decimal) decimal.Decimal {
	totalQty := existingQty.Add(incomingQty)
	if totalQty.IsZero() {
		return decimal.Zero
	}
	if existingQty.IsZero() {
		return incomingCost.Round(costPrecision)
	}
	totalValue := existingQty.Mul(existingCost).Add(incomingQty.Mul(incomingCost))
	return totalValue.Div(totalQty).Round(costPrecision)
}

// AverageDual applies WeightedAverage to both currency legs of a cost pair.
func AverageDual(existingQty decimal.Decimal, existing DualCost, incomingQty decimal.Decimal, incoming DualCost) DualCost {
	return DualCost{
		Foreign: WeightedAverage(existingQty, existing.Foreign, incomingQty, incoming.Foreign),
		Base:    WeightedAverage(existingQty, existing.Base, incomingQty, incoming.Base),
	}
}

// DeriveDual derives the base-currency leg of a unit cost from its foreign leg
// using the supplied exchange rate.
func DeriveDual(unitCostForeign decimal.Decimal, rate valueobject.ExchangeRate) DualCost {
	return DualCost{
		Foreign: unitCostForeign.Round(costPrecision),
		Base:    rate.ToBase(unitCostForeign).Round(costPrecision),
	}
}

// ConvertDirection selects which way Convert translates an amount.
type ConvertDirection int

const (
	// ForeignToBase multiplies by the rate.
	ForeignToBase ConvertDirection = iota
	// BaseToForeign divides by the rate.
	BaseToForeign
)

// Convert translates an amount between the base and foreign currency using the
// supplied rate. The rate is an opaque input; the engine never resolves it.
func Convert(amount decimal.Decimal, rate valueobject.ExchangeRate, direction ConvertDirection) decimal.Decimal {
	if direction == BaseToForeign {
		return rate.ToForeign(amount).Round(costPrecision)
	}
	return rate.ToBase(amount).Round(costPrecision)
}

// OutputUnitCost computes the unit cost of production output as the total
// consumed ingredient cost spread over the output quantity. Zero output
// quantity yields a zero cost.
func OutputUnitCost(totalConsumedCost, outputQty decimal.Decimal) decimal.Decimal {
	if outputQty.IsZero() {
		return decimal.Zero
	}
	return totalConsumedCost.Div(outputQty).Round(costPrecision)
}
