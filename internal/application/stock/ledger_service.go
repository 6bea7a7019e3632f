package stock

import (
	"context"
	"errors"
	"time"

	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/shared/valueobject"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService exposes the ledger mutation primitives. Each mutation runs in
// its own transaction with a bounded optimistic-lock retry; mutations against
// the same branch-item-kind key therefore serialize against each other while
// different keys proceed in parallel.
type LedgerService struct {
	scope          TransactionScope
	balanceRepo    stock.StockBalanceRepository
	movementRepo   stock.MovementRepository
	rates          costing.RateProvider
	eventPublisher shared.EventPublisher
	retries        int
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	balanceRepo stock.StockBalanceRepository,
	movementRepo stock.MovementRepository,
	rates costing.RateProvider,
) *LedgerService {
	return &LedgerService{
		scope:        scope,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		rates:        rates,
		retries:      DefaultConflictRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRetries overrides the optimistic-lock retry budget
func (s *LedgerService) SetRetries(retries int) {
	s.retries = retries
}

// Credit adds stock and recomputes the weighted-average cost. The base-currency
// leg is derived from the foreign unit cost and the exchange rate; when the
// request carries no rate, the provider resolves one for the movement date.
func (s *LedgerService) Credit(ctx context.Context, actorID uuid.UUID, req CreditRequest) (*BalanceResponse, error) {
	kind := stock.ItemKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}
	movementType := stock.MovementType(req.MovementType)
	sourceType := stock.SourceType(req.SourceType)

	rate, err := s.resolveRate(ctx, req.ExchangeRate, req.Date)
	if err != nil {
		return nil, err
	}

	input := CreditInput{
		BranchID:     req.BranchID,
		ItemID:       req.ItemID,
		Kind:         kind,
		Quantity:     req.Quantity,
		UnitCost:     costing.DeriveDual(req.UnitCostForeign, rate),
		MovementType: movementType,
		SourceType:   sourceType,
		SourceID:     req.SourceID,
		ActorID:      actorID,
		Reason:       req.Reason,
		Date:         req.Date,
	}

	var balance *stock.StockBalance
	err = RunWithConflictRetry(ctx, s.retries, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			_, b, applyErr := ApplyCredit(ctx, repos, input)
			balance = b
			return applyErr
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, balance)
	response := ToBalanceResponse(balance)
	return &response, nil
}

// Debit removes stock at the current weighted-average cost
func (s *LedgerService) Debit(ctx context.Context, actorID uuid.UUID, req DebitRequest) (*BalanceResponse, error) {
	kind := stock.ItemKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}

	input := DebitInput{
		BranchID:     req.BranchID,
		ItemID:       req.ItemID,
		Kind:         kind,
		Quantity:     req.Quantity,
		MovementType: stock.MovementType(req.MovementType),
		SourceType:   stock.SourceType(req.SourceType),
		SourceID:     req.SourceID,
		ActorID:      actorID,
		Reason:       req.Reason,
		Date:         req.Date,
	}

	var balance *stock.StockBalance
	err := RunWithConflictRetry(ctx, s.retries, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			_, b, applyErr := ApplyDebit(ctx, repos, input)
			balance = b
			return applyErr
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, balance)
	response := ToBalanceResponse(balance)
	return &response, nil
}

// Adjust applies a signed reconciliation delta
func (s *LedgerService) Adjust(ctx context.Context, actorID uuid.UUID, req AdjustRequest) (*BalanceResponse, error) {
	kind := stock.ItemKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}

	input := AdjustInput{
		BranchID:   req.BranchID,
		ItemID:     req.ItemID,
		Kind:       kind,
		Delta:      req.Delta,
		SourceType: stock.SourceType(req.SourceType),
		SourceID:   req.SourceID,
		ActorID:    actorID,
		Reason:     req.Reason,
		Date:       req.Date,
	}

	var balance *stock.StockBalance
	err := RunWithConflictRetry(ctx, s.retries, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			_, b, applyErr := ApplyAdjust(ctx, repos, input)
			balance = b
			return applyErr
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, balance)
	response := ToBalanceResponse(balance)
	return &response, nil
}

// GetBalance returns the balance for a branch-item-kind key. An item that has
// never moved at the branch reads as an empty balance, not an error.
func (s *LedgerService) GetBalance(ctx context.Context, branchID, itemID uuid.UUID, kindStr string) (*BalanceResponse, error) {
	kind := stock.ItemKind(kindStr)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}

	balance, err := s.balanceRepo.FindByKey(ctx, branchID, itemID, kind)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			empty, newErr := stock.NewStockBalance(branchID, itemID, kind)
			if newErr != nil {
				return nil, newErr
			}
			response := ToBalanceResponse(empty)
			return &response, nil
		}
		return nil, err
	}

	response := ToBalanceResponse(balance)
	return &response, nil
}

// ListBranchBalances returns the balances held at a branch
func (s *LedgerService) ListBranchBalances(ctx context.Context, branchID uuid.UUID, kindStr string, filter shared.Filter) ([]BalanceResponse, int64, error) {
	kind := stock.ItemKind(kindStr)
	if !kind.IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}

	balances, err := s.balanceRepo.FindByBranch(ctx, branchID, kind, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.balanceRepo.CountByBranch(ctx, branchID, kind)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BalanceResponse, 0, len(balances))
	for i := range balances {
		responses = append(responses, ToBalanceResponse(&balances[i]))
	}
	return responses, total, nil
}

// GetBranchValue sums quantity times base unit cost across a branch, the
// book value of the stock on hand
func (s *LedgerService) GetBranchValue(ctx context.Context, branchID uuid.UUID, kindStr string) (*BranchValueResponse, error) {
	kind := stock.ItemKind(kindStr)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}

	total, err := s.balanceRepo.SumValueByBranch(ctx, branchID, kind)
	if err != nil {
		return nil, err
	}

	return &BranchValueResponse{
		BranchID:       branchID,
		Kind:           kind.String(),
		TotalValueBase: total,
	}, nil
}

// ListMovements returns the movement history matching the filter
func (s *LedgerService) ListMovements(ctx context.Context, filter MovementListFilter) ([]MovementResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	if filter.ItemID != nil && filter.Kind == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Item kind is required when filtering by item")
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "movement_date",
		OrderDir: "desc",
	}

	var movements []stock.Movement
	var err error
	switch {
	case filter.ItemID != nil && filter.Kind != "":
		kind := stock.ItemKind(filter.Kind)
		if !kind.IsValid() {
			return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
		}
		movements, err = s.movementRepo.FindByKey(ctx, filter.BranchID, *filter.ItemID, kind, domainFilter)
	case filter.From != nil || filter.To != nil:
		start, end := dateWindow(filter.From, filter.To)
		movements, err = s.movementRepo.FindByDateRange(ctx, filter.BranchID, start, end, domainFilter)
	default:
		movements, err = s.movementRepo.FindByBranch(ctx, filter.BranchID, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	return ToMovementResponses(movements), nil
}

// ListMovementsBySource returns the movements a source document caused
func (s *LedgerService) ListMovementsBySource(ctx context.Context, sourceTypeStr, sourceID string) ([]MovementResponse, error) {
	sourceType := stock.SourceType(sourceTypeStr)
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}

	movements, err := s.movementRepo.FindBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// VerifyReplay recomputes a key's quantity from its movement history and
// compares it with the stored balance. A mismatch means the ledger has been
// tampered with or a bug has slipped a movement past the balance update.
func (s *LedgerService) VerifyReplay(ctx context.Context, branchID, itemID uuid.UUID, kindStr string) (bool, error) {
	kind := stock.ItemKind(kindStr)
	if !kind.IsValid() {
		return false, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind")
	}

	sum, err := s.movementRepo.SumDeltaByKey(ctx, branchID, itemID, kind)
	if err != nil {
		return false, err
	}

	balance, err := s.balanceRepo.FindByKey(ctx, branchID, itemID, kind)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return sum.IsZero(), nil
		}
		return false, err
	}

	return balance.Quantity.Equal(sum), nil
}

// resolveRate builds the exchange rate for a credit. An explicit rate on the
// request wins; otherwise the provider is asked for the rate applicable on the
// movement date.
func (s *LedgerService) resolveRate(ctx context.Context, rate decimal.Decimal, date time.Time) (valueobject.ExchangeRate, error) {
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

func (s *LedgerService) publishDomainEvents(ctx context.Context, balance *stock.StockBalance) {
	if s.eventPublisher == nil || balance == nil {
		return
	}
	events := balance.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	balance.ClearDomainEvents()
}

func dateWindow(from, to *time.Time) (time.Time, time.Time) {
	start := time.Time{}
	end := time.Now()
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return start, end
}
