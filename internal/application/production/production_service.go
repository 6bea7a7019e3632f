package production

import (
	"context"
	"errors"

	appstock "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/domain/catalog"
	"github.com/foodworks/backend/internal/domain/production"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// ProductionService drives the batch state machine. Planning never touches the
// ledger; completion debits the consumed ingredients and credits the finished
// goods in one transaction.
type ProductionService struct {
	scope          TransactionScope
	batchRepo      production.BatchRepository
	balanceRepo    stock.StockBalanceRepository
	recipeCatalog  catalog.RecipeCatalog
	eventPublisher shared.EventPublisher
	retries        int
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	scope TransactionScope,
	batchRepo production.BatchRepository,
	balanceRepo stock.StockBalanceRepository,
	recipeCatalog catalog.RecipeCatalog,
) *ProductionService {
	return &ProductionService{
		scope:         scope,
		batchRepo:     batchRepo,
		balanceRepo:   balanceRepo,
		recipeCatalog: recipeCatalog,
		retries:       appstock.DefaultConflictRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create plans a new batch against the referenced recipe version. The version
// is resolved once here and the batch keeps pointing at it even if the recipe
// is edited later.
func (s *ProductionService) Create(ctx context.Context, actorID uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	recipe, err := s.recipeCatalog.FindVersionByID(ctx, req.RecipeVersionID)
	if err != nil {
		return nil, err
	}

	batchNumber, err := s.batchRepo.NextBatchNumber(ctx)
	if err != nil {
		return nil, err
	}

	batch, err := production.NewProductionBatch(req.BranchID, batchNumber, recipe, req.PlannedQty, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, batch)
	response := ToBatchResponse(batch)
	return &response, nil
}

// CheckAvailability reports the planned ingredients the branch currently
// cannot cover. A read-only snapshot; nothing is reserved and the answer can
// be stale by the time the batch completes.
func (s *ProductionService) CheckAvailability(ctx context.Context, batchID uuid.UUID) ([]AvailabilityShortage, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return s.shortages(ctx, batch)
}

func (s *ProductionService) shortages(ctx context.Context, batch *production.ProductionBatch) ([]AvailabilityShortage, error) {
	result := make([]AvailabilityShortage, 0)
	for _, line := range batch.PlannedLines() {
		balance, err := s.balanceRepo.FindByKey(ctx, batch.BranchID, line.IngredientID, stock.ItemKindIngredient)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				result = append(result, AvailabilityShortage{
					IngredientID: line.IngredientID,
					Required:     line.Quantity,
				})
				continue
			}
			return nil, err
		}
		if !balance.CanFulfill(line.Quantity) {
			result = append(result, AvailabilityShortage{
				IngredientID: line.IngredientID,
				Required:     line.Quantity,
				Available:    balance.Quantity,
			})
		}
	}
	return result, nil
}

// Start moves a planned batch into progress after an advisory availability
// check. The check does not reserve stock, so a concurrently started batch can
// still win the ingredients and make this one fail at completion.
func (s *ProductionService) Start(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if batch.Status == production.BatchStatusPlanned {
		short, err := s.shortages(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(short) > 0 {
			return nil, shared.ErrInsufficientStock
		}
	}

	if err := batch.Start(); err != nil {
		return nil, err
	}
	if err := s.batchRepo.SaveWithLock(ctx, batch); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, batch)
	response := ToBatchResponse(batch)
	return &response, nil
}

// Complete debits every actually-consumed ingredient line, derives the output
// unit cost from the total consumed cost, and credits the finished goods. All
// of it commits atomically; if any line lacks stock the whole completion rolls
// back and the batch stays in progress.
func (s *ProductionService) Complete(ctx context.Context, actorID uuid.UUID, batchID uuid.UUID, req CompleteBatchRequest) (*BatchResponse, error) {
	var completed *production.ProductionBatch

	err := appstock.RunWithConflictRetry(ctx, s.retries, func() error {
		completed = nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			batch, err := repos.BatchRepo().FindByID(ctx, batchID)
			if err != nil {
				return err
			}
			if batch.Status != production.BatchStatusInProgress {
				return shared.ErrInvalidState
			}

			actualLines := make([]production.BatchLine, 0, len(req.ActualLines))
			for _, line := range req.ActualLines {
				movement, _, err := appstock.ApplyDebit(ctx, repos, appstock.DebitInput{
					BranchID:     batch.BranchID,
					ItemID:       line.IngredientID,
					Kind:         stock.ItemKindIngredient,
					Quantity:     line.Quantity,
					MovementType: stock.MovementTypeProductionConsumption,
					SourceType:   stock.SourceTypeProductionBatch,
					SourceID:     batch.BatchNumber,
					ActorID:      actorID,
				})
				if err != nil {
					return err
				}
				actualLines = append(actualLines, production.BatchLine{
					BaseEntity:      shared.NewBaseEntity(),
					IngredientID:    line.IngredientID,
					Quantity:        line.Quantity,
					Unit:            line.Unit,
					UnitCostForeign: movement.UnitCostForeign,
					UnitCostBase:    movement.UnitCostBase,
				})
			}

			if err := batch.Complete(actualLines, req.OutputQty); err != nil {
				return err
			}

			if _, _, err := appstock.ApplyCredit(ctx, repos, appstock.CreditInput{
				BranchID:     batch.BranchID,
				ItemID:       batch.ProductID,
				Kind:         stock.ItemKindProduct,
				Quantity:     batch.OutputQty,
				UnitCost:     batch.OutputCost(),
				MovementType: stock.MovementTypeProductionIn,
				SourceType:   stock.SourceTypeProductionBatch,
				SourceID:     batch.BatchNumber,
				ActorID:      actorID,
			}); err != nil {
				return err
			}

			if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
				return err
			}

			completed = batch
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, completed)
	response := ToBatchResponse(completed)
	return &response, nil
}

// Cancel abandons a batch that has not completed. No ledger effect; the
// ingredients were never deducted.
func (s *ProductionService) Cancel(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	if batch.Status == production.BatchStatusCancelled {
		response := ToBatchResponse(batch)
		return &response, nil
	}

	if err := batch.Cancel(); err != nil {
		return nil, err
	}
	if err := s.batchRepo.SaveWithLock(ctx, batch); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, batch)
	response := ToBatchResponse(batch)
	return &response, nil
}

// GetByID retrieves a batch by ID
func (s *ProductionService) GetByID(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	response := ToBatchResponse(batch)
	return &response, nil
}

// List retrieves batches at a branch
func (s *ProductionService) List(ctx context.Context, branchID uuid.UUID, status string, filter shared.Filter) ([]BatchResponse, error) {
	batchStatus := production.BatchStatus(status)
	if status != "" && !batchStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid batch status")
	}

	batches, err := s.batchRepo.FindByBranch(ctx, branchID, batchStatus, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, ToBatchResponse(&batches[i]))
	}
	return responses, nil
}

func (s *ProductionService) publishDomainEvents(ctx context.Context, batch *production.ProductionBatch) {
	if s.eventPublisher == nil || batch == nil {
		return
	}
	events := batch.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	batch.ClearDomainEvents()
}
