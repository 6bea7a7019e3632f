package stocktaking

import (
	"context"
	"errors"

	appstock "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/foodworks/backend/internal/domain/stocktaking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockTakingService drives physical inventory counts. Creating a count
// snapshots the ledger as the expected quantities; completing it issues one
// adjustment per divergent line so the ledger converges to what was counted.
type StockTakingService struct {
	scope          TransactionScope
	takingRepo     stocktaking.StockTakingRepository
	balanceRepo    stock.StockBalanceRepository
	eventPublisher shared.EventPublisher
	retries        int
}

// NewStockTakingService creates a new StockTakingService
func NewStockTakingService(
	scope TransactionScope,
	takingRepo stocktaking.StockTakingRepository,
	balanceRepo stock.StockBalanceRepository,
) *StockTakingService {
	return &StockTakingService{
		scope:       scope,
		takingRepo:  takingRepo,
		balanceRepo: balanceRepo,
		retries:     appstock.DefaultConflictRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockTakingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a draft count over the requested items. Each line snapshots
// the item's current ledger quantity as the expected value; items the branch
// has never stocked snapshot as zero.
func (s *StockTakingService) Create(ctx context.Context, actorID uuid.UUID, req CreateStockTakingRequest) (*StockTakingResponse, error) {
	takingNumber, err := s.takingRepo.NextTakingNumber(ctx)
	if err != nil {
		return nil, err
	}

	st, err := stocktaking.NewStockTaking(takingNumber, req.BranchID, stock.ItemKind(req.Kind), actorID)
	if err != nil {
		return nil, err
	}

	for _, itemID := range req.ItemIDs {
		expected := decimal.Zero
		balance, err := s.balanceRepo.FindByKey(ctx, req.BranchID, itemID, st.Kind)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
		} else {
			expected = balance.Quantity
		}
		if err := st.AddLine(itemID, expected); err != nil {
			return nil, err
		}
	}

	if err := s.takingRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, st)
	response := ToStockTakingResponse(st)
	return &response, nil
}

// Start opens the counting window. The ledger is not frozen; movements made
// while counting fold into the deltas computed at completion.
func (s *StockTakingService) Start(ctx context.Context, takingID uuid.UUID) (*StockTakingResponse, error) {
	st, err := s.takingRepo.FindByID(ctx, takingID)
	if err != nil {
		return nil, err
	}

	if err := st.Start(); err != nil {
		return nil, err
	}
	if err := s.takingRepo.SaveWithLock(ctx, st); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, st)
	response := ToStockTakingResponse(st)
	return &response, nil
}

// Complete records the counts and reconciles the ledger. One adjustment
// movement is written per divergent line, all within the same transaction as
// the status change; lines that matched leave no trace in the ledger.
func (s *StockTakingService) Complete(ctx context.Context, actorID uuid.UUID, takingID uuid.UUID, req CompleteStockTakingRequest) (*StockTakingResponse, error) {
	counted := make(map[uuid.UUID]decimal.Decimal, len(req.Lines))
	for _, line := range req.Lines {
		counted[line.ItemID] = line.CountedQty
	}

	var completed *stocktaking.StockTaking

	err := appstock.RunWithConflictRetry(ctx, s.retries, func() error {
		completed = nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			st, err := repos.StockTakingRepo().FindByID(ctx, takingID)
			if err != nil {
				return err
			}

			if err := st.MarkCompleted(counted); err != nil {
				return err
			}

			for _, line := range st.DifferenceLines() {
				if _, _, err := appstock.ApplyAdjust(ctx, repos, appstock.AdjustInput{
					BranchID:   st.BranchID,
					ItemID:     line.ItemID,
					Kind:       st.Kind,
					Delta:      line.Delta(),
					SourceType: stock.SourceTypeStockTaking,
					SourceID:   st.TakingNumber,
					ActorID:    actorID,
					Reason:     "count reconciliation",
				}); err != nil {
					return err
				}
			}

			if err := repos.StockTakingRepo().SaveWithLock(ctx, st); err != nil {
				return err
			}

			completed = st
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, completed)
	response := ToStockTakingResponse(completed)
	return &response, nil
}

// Cancel abandons a count. No ledger effect; the expected snapshots are
// simply discarded.
func (s *StockTakingService) Cancel(ctx context.Context, takingID uuid.UUID) (*StockTakingResponse, error) {
	st, err := s.takingRepo.FindByID(ctx, takingID)
	if err != nil {
		return nil, err
	}

	if st.Status == stocktaking.StockTakingStatusCancelled {
		response := ToStockTakingResponse(st)
		return &response, nil
	}

	if err := st.Cancel(); err != nil {
		return nil, err
	}
	if err := s.takingRepo.SaveWithLock(ctx, st); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, st)
	response := ToStockTakingResponse(st)
	return &response, nil
}

// GetByID retrieves a count document by ID
func (s *StockTakingService) GetByID(ctx context.Context, takingID uuid.UUID) (*StockTakingResponse, error) {
	st, err := s.takingRepo.FindByID(ctx, takingID)
	if err != nil {
		return nil, err
	}
	response := ToStockTakingResponse(st)
	return &response, nil
}

// List retrieves count documents at a branch
func (s *StockTakingService) List(ctx context.Context, branchID uuid.UUID, status string, filter shared.Filter) ([]StockTakingResponse, error) {
	takingStatus := stocktaking.StockTakingStatus(status)
	if status != "" && !takingStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid stock taking status")
	}

	takings, err := s.takingRepo.FindByBranch(ctx, branchID, takingStatus, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]StockTakingResponse, 0, len(takings))
	for i := range takings {
		responses = append(responses, ToStockTakingResponse(&takings[i]))
	}
	return responses, nil
}

func (s *StockTakingService) publishDomainEvents(ctx context.Context, st *stocktaking.StockTaking) {
	if s.eventPublisher == nil || st == nil {
		return
	}
	events := st.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	st.ClearDomainEvents()
}
