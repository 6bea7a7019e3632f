package transfer

import (
	"context"

	appstock "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/foodworks/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferService drives the inter-branch transfer state machine. Sending
// debits the source, receiving credits the destination at the sent cost, and
// any transit shortfall is written off at the source so no quantity ever
// silently disappears from the ledger.
type TransferService struct {
	scope          TransactionScope
	transferRepo   transfer.TransferRepository
	eventPublisher shared.EventPublisher
	retries        int
}

// NewTransferService creates a new TransferService
func NewTransferService(scope TransactionScope, transferRepo transfer.TransferRepository) *TransferService {
	return &TransferService{
		scope:        scope,
		transferRepo: transferRepo,
		retries:      appstock.DefaultConflictRetries,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create stores a draft transfer with its requested lines. No ledger effect.
func (s *TransferService) Create(ctx context.Context, actorID uuid.UUID, req CreateTransferRequest) (*TransferResponse, error) {
	transferNumber, err := s.transferRepo.NextTransferNumber(ctx)
	if err != nil {
		return nil, err
	}

	t, err := transfer.NewTransfer(transferNumber, req.SourceBranchID, req.DestBranchID, stock.ItemKind(req.Kind), actorID)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if err := t.AddLine(line.ItemID, line.Quantity, line.Unit); err != nil {
			return nil, err
		}
	}

	if err := s.transferRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, t)
	response := ToTransferResponse(t)
	return &response, nil
}

// Send debits every line from the source branch and freezes the sent
// quantities and costs. All lines commit atomically; one short line fails the
// whole send and the transfer stays in draft.
func (s *TransferService) Send(ctx context.Context, actorID uuid.UUID, transferID uuid.UUID) (*TransferResponse, error) {
	var sent *transfer.Transfer

	err := appstock.RunWithConflictRetry(ctx, s.retries, func() error {
		sent = nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			t, err := repos.TransferRepo().FindByID(ctx, transferID)
			if err != nil {
				return err
			}
			if t.Status != transfer.TransferStatusDraft {
				return shared.ErrInvalidState
			}
			if len(t.Lines) == 0 {
				return shared.NewDomainError("EMPTY_TRANSFER", "Transfer has no lines")
			}

			costs := make(map[uuid.UUID]costing.DualCost, len(t.Lines))
			for _, line := range t.Lines {
				movement, _, err := appstock.ApplyDebit(ctx, repos, appstock.DebitInput{
					BranchID:     t.SourceBranchID,
					ItemID:       line.ItemID,
					Kind:         t.Kind,
					Quantity:     line.RequestedQty,
					MovementType: stock.MovementTypeTransferOut,
					SourceType:   stock.SourceTypeTransfer,
					SourceID:     t.TransferNumber,
					ActorID:      actorID,
				})
				if err != nil {
					return err
				}
				costs[line.ItemID] = costing.DualCost{
					Foreign: movement.UnitCostForeign,
					Base:    movement.UnitCostBase,
				}
			}

			if err := t.MarkSent(costs); err != nil {
				return err
			}
			if err := repos.TransferRepo().SaveWithLock(ctx, t); err != nil {
				return err
			}

			sent = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, sent)
	response := ToTransferResponse(sent)
	return &response, nil
}

// Receive credits the destination with what actually arrived, at the cost the
// goods were sent at. A shortfall is restored to the source and immediately
// written off there, leaving the loss as an explicit movement pair instead of
// a silent gap between the out and in movements.
func (s *TransferService) Receive(ctx context.Context, actorID uuid.UUID, transferID uuid.UUID, req ReceiveTransferRequest) (*TransferResponse, error) {
	received := make(map[uuid.UUID]decimal.Decimal, len(req.Lines))
	for _, line := range req.Lines {
		received[line.ItemID] = line.ReceivedQty
	}

	var done *transfer.Transfer

	err := appstock.RunWithConflictRetry(ctx, s.retries, func() error {
		done = nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			t, err := repos.TransferRepo().FindByID(ctx, transferID)
			if err != nil {
				return err
			}

			if err := t.MarkReceived(received); err != nil {
				return err
			}

			for _, line := range t.Lines {
				if line.ReceivedQty.IsPositive() {
					if _, _, err := appstock.ApplyCredit(ctx, repos, appstock.CreditInput{
						BranchID:     t.DestBranchID,
						ItemID:       line.ItemID,
						Kind:         t.Kind,
						Quantity:     line.ReceivedQty,
						UnitCost:     line.SentCost(),
						MovementType: stock.MovementTypeTransferIn,
						SourceType:   stock.SourceTypeTransfer,
						SourceID:     t.TransferNumber,
						ActorID:      actorID,
					}); err != nil {
						return err
					}
				}

				if shortfall := line.Shortfall(); shortfall.IsPositive() {
					if err := s.writeOffShortfall(ctx, repos, t, line, shortfall, actorID); err != nil {
						return err
					}
				}
			}

			if err := repos.TransferRepo().SaveWithLock(ctx, t); err != nil {
				return err
			}

			done = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, done)
	response := ToTransferResponse(done)
	return &response, nil
}

// writeOffShortfall books the transit loss at the source: the missing units
// are credited back at the sent cost and debited again as a write-off, so the
// movement deltas for the transfer sum to exactly the shrinkage.
func (s *TransferService) writeOffShortfall(
	ctx context.Context,
	repos TransactionalRepositories,
	t *transfer.Transfer,
	line transfer.TransferLine,
	shortfall decimal.Decimal,
	actorID uuid.UUID,
) error {
	if _, _, err := appstock.ApplyCredit(ctx, repos, appstock.CreditInput{
		BranchID:     t.SourceBranchID,
		ItemID:       line.ItemID,
		Kind:         t.Kind,
		Quantity:     shortfall,
		UnitCost:     line.SentCost(),
		MovementType: stock.MovementTypeTransferIn,
		SourceType:   stock.SourceTypeTransfer,
		SourceID:     t.TransferNumber,
		ActorID:      actorID,
		Reason:       "transit shortfall reversal",
	}); err != nil {
		return err
	}

	_, _, err := appstock.ApplyDebit(ctx, repos, appstock.DebitInput{
		BranchID:     t.SourceBranchID,
		ItemID:       line.ItemID,
		Kind:         t.Kind,
		Quantity:     shortfall,
		MovementType: stock.MovementTypeWriteOff,
		SourceType:   stock.SourceTypeTransfer,
		SourceID:     t.TransferNumber,
		ActorID:      actorID,
		Reason:       "transit shortfall",
	})
	return err
}

// Cancel abandons a transfer. Cancelling after send credits the sent
// quantities back to the source at their sent cost before the status changes,
// so the source is restored to its pre-send balance.
func (s *TransferService) Cancel(ctx context.Context, actorID uuid.UUID, transferID uuid.UUID) (*TransferResponse, error) {
	var cancelled *transfer.Transfer

	err := appstock.RunWithConflictRetry(ctx, s.retries, func() error {
		cancelled = nil
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			t, err := repos.TransferRepo().FindByID(ctx, transferID)
			if err != nil {
				return err
			}
			if t.Status == transfer.TransferStatusCancelled {
				cancelled = t
				return nil
			}

			needsReversal := t.Status == transfer.TransferStatusSent

			if err := t.Cancel(); err != nil {
				return err
			}

			if needsReversal {
				for _, line := range t.Lines {
					if _, _, err := appstock.ApplyCredit(ctx, repos, appstock.CreditInput{
						BranchID:     t.SourceBranchID,
						ItemID:       line.ItemID,
						Kind:         t.Kind,
						Quantity:     line.SentQty,
						UnitCost:     line.SentCost(),
						MovementType: stock.MovementTypeTransferIn,
						SourceType:   stock.SourceTypeTransfer,
						SourceID:     t.TransferNumber,
						ActorID:      actorID,
						Reason:       "transfer cancelled",
					}); err != nil {
						return err
					}
				}
			}

			if err := repos.TransferRepo().SaveWithLock(ctx, t); err != nil {
				return err
			}

			cancelled = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, cancelled)
	response := ToTransferResponse(cancelled)
	return &response, nil
}

// GetByID retrieves a transfer by ID
func (s *TransferService) GetByID(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	t, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(t)
	return &response, nil
}

// List retrieves transfers touching a branch
func (s *TransferService) List(ctx context.Context, branchID uuid.UUID, status string, filter shared.Filter) ([]TransferResponse, error) {
	transferStatus := transfer.TransferStatus(status)
	if status != "" && !transferStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid transfer status")
	}

	transfers, err := s.transferRepo.FindByBranch(ctx, branchID, transferStatus, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		responses = append(responses, ToTransferResponse(&transfers[i]))
	}
	return responses, nil
}

func (s *TransferService) publishDomainEvents(ctx context.Context, t *transfer.Transfer) {
	if s.eventPublisher == nil || t == nil {
		return
	}
	events := t.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	t.ClearDomainEvents()
}
