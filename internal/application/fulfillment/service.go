package fulfillment

import (
	"context"
	"time"

	appstock "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/shared/valueobject"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service consumes fulfillment documents into the stock ledger. It owns no
// state machine of its own; a confirmed shipment debits finished goods and an
// accepted return credits them back, each document in one transaction.
type Service struct {
	scope   appstock.TransactionScope
	rates   costing.RateProvider
	retries int
}

// NewService creates a new fulfillment Service
func NewService(scope appstock.TransactionScope, rates costing.RateProvider) *Service {
	return &Service{
		scope:   scope,
		rates:   rates,
		retries: appstock.DefaultConflictRetries,
	}
}

// ConfirmShipment debits every shipped product at its current average cost.
// All lines commit atomically; a single short line rejects the whole
// shipment.
func (s *Service) ConfirmShipment(ctx context.Context, actorID uuid.UUID, req ConfirmShipmentRequest) ([]appstock.MovementResponse, error) {
	var movements []stock.Movement

	err := appstock.RunWithConflictRetry(ctx, s.retries, func() error {
		movements = movements[:0]
		return s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
			for _, line := range req.Lines {
				movement, _, err := appstock.ApplyDebit(ctx, repos, appstock.DebitInput{
					BranchID:     req.BranchID,
					ItemID:       line.ProductID,
					Kind:         stock.ItemKindProduct,
					Quantity:     line.Quantity,
					MovementType: stock.MovementTypeSale,
					SourceType:   stock.SourceTypeSale,
					SourceID:     req.SaleRef,
					ActorID:      actorID,
					Date:         req.Date,
				})
				if err != nil {
					return err
				}
				movements = append(movements, *movement)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return appstock.ToMovementResponses(movements), nil
}

// AcceptReturn credits every returned product at the unit cost it originally
// shipped at, folding the goods back into the weighted average.
func (s *Service) AcceptReturn(ctx context.Context, actorID uuid.UUID, req AcceptReturnRequest) ([]appstock.MovementResponse, error) {
	rate, err := s.resolveRate(ctx, req.ExchangeRate, req.Date)
	if err != nil {
		return nil, err
	}

	var movements []stock.Movement

	err = appstock.RunWithConflictRetry(ctx, s.retries, func() error {
		movements = movements[:0]
		return s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
			for _, line := range req.Lines {
				movement, _, err := appstock.ApplyCredit(ctx, repos, appstock.CreditInput{
					BranchID:     req.BranchID,
					ItemID:       line.ProductID,
					Kind:         stock.ItemKindProduct,
					Quantity:     line.Quantity,
					UnitCost:     costing.DeriveDual(line.UnitCostForeign, rate),
					MovementType: stock.MovementTypeReturn,
					SourceType:   stock.SourceTypeSalesReturn,
					SourceID:     req.ReturnRef,
					ActorID:      actorID,
					Date:         req.Date,
				})
				if err != nil {
					return err
				}
				movements = append(movements, *movement)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return appstock.ToMovementResponses(movements), nil
}

func (s *Service) resolveRate(ctx context.Context, rate decimal.Decimal, date time.Time) (valueobject.ExchangeRate, error) {
	if date.IsZero() {
		date = time.Now()
	}
	if !rate.IsZero() {
		return valueobject.NewExchangeRate(rate, date)
	}
	if s.rates == nil {
		return valueobject.ExchangeRate{}, shared.NewDomainError("MISSING_RATE", "No exchange rate supplied and no rate provider configured")
	}
	return s.rates.RateFor(ctx, date)
}
