package stock

import (
	"context"
	"errors"
	"time"

	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultConflictRetries is how many times a ledger mutation is retried after
// losing an optimistic-lock race before the conflict is surfaced.
const DefaultConflictRetries = 3

// CreditInput describes one inbound ledger mutation
type CreditInput struct {
	BranchID     uuid.UUID
	ItemID       uuid.UUID
	Kind         stock.ItemKind
	Quantity     decimal.Decimal
	UnitCost     costing.DualCost
	MovementType stock.MovementType
	SourceType   stock.SourceType
	SourceID     string
	ActorID      uuid.UUID
	Reason       string
	Date         time.Time
}

// DebitInput describes one outbound ledger mutation. No cost is supplied;
// outgoing stock always carries the balance's current weighted average.
type DebitInput struct {
	BranchID     uuid.UUID
	ItemID       uuid.UUID
	Kind         stock.ItemKind
	Quantity     decimal.Decimal
	MovementType stock.MovementType
	SourceType   stock.SourceType
	SourceID     string
	ActorID      uuid.UUID
	Reason       string
	Date         time.Time
}

// AdjustInput describes one signed count-reconciliation mutation
type AdjustInput struct {
	BranchID   uuid.UUID
	ItemID     uuid.UUID
	Kind       stock.ItemKind
	Delta      decimal.Decimal
	SourceType stock.SourceType
	SourceID   string
	ActorID    uuid.UUID
	Reason     string
	Date       time.Time
}

// ApplyCredit performs one inbound mutation against the repositories of an
// open transaction: it recomputes the weighted-average cost, saves the balance
// under its optimistic lock, and appends the movement record. Callers supply
// the transaction; workflow services batch several applies into one.
func ApplyCredit(ctx context.Context, repos TransactionalRepositories, in CreditInput) (*stock.Movement, *stock.StockBalance, error) {
	if !in.MovementType.IsInbound() {
		return nil, nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Credit requires an inbound movement type")
	}

	balance, err := repos.BalanceRepo().GetOrCreate(ctx, in.BranchID, in.ItemID, in.Kind)
	if err != nil {
		return nil, nil, err
	}

	if err := balance.Credit(in.Quantity, in.UnitCost); err != nil {
		return nil, nil, err
	}

	movement, err := stock.NewMovement(
		in.BranchID, in.ItemID, in.Kind,
		in.MovementType,
		in.Quantity,
		in.UnitCost.Foreign, in.UnitCost.Base,
		balance.Quantity,
		in.SourceType, in.SourceID,
		in.ActorID,
	)
	if err != nil {
		return nil, nil, err
	}
	decorateMovement(movement, in.Reason, in.Date)

	if err := repos.BalanceRepo().SaveWithLock(ctx, balance); err != nil {
		return nil, nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, nil, err
	}

	return movement, balance, nil
}

// ApplyDebit performs one outbound mutation against the repositories of an
// open transaction. The movement carries the weighted-average cost the balance
// held before the debit.
func ApplyDebit(ctx context.Context, repos TransactionalRepositories, in DebitInput) (*stock.Movement, *stock.StockBalance, error) {
	if !in.MovementType.IsOutbound() {
		return nil, nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Debit requires an outbound movement type")
	}

	balance, err := repos.BalanceRepo().GetOrCreate(ctx, in.BranchID, in.ItemID, in.Kind)
	if err != nil {
		return nil, nil, err
	}

	cost := balance.UnitCost()
	if err := balance.Debit(in.Quantity); err != nil {
		return nil, nil, err
	}

	movement, err := stock.NewMovement(
		in.BranchID, in.ItemID, in.Kind,
		in.MovementType,
		in.Quantity,
		cost.Foreign, cost.Base,
		balance.Quantity,
		in.SourceType, in.SourceID,
		in.ActorID,
	)
	if err != nil {
		return nil, nil, err
	}
	decorateMovement(movement, in.Reason, in.Date)

	if err := repos.BalanceRepo().SaveWithLock(ctx, balance); err != nil {
		return nil, nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, nil, err
	}

	return movement, balance, nil
}

// ApplyAdjust performs one signed reconciliation mutation against the
// repositories of an open transaction. The movement type reflects the sign of
// the delta; either direction is valued at the current weighted average.
func ApplyAdjust(ctx context.Context, repos TransactionalRepositories, in AdjustInput) (*stock.Movement, *stock.StockBalance, error) {
	balance, err := repos.BalanceRepo().GetOrCreate(ctx, in.BranchID, in.ItemID, in.Kind)
	if err != nil {
		return nil, nil, err
	}

	movementType := stock.MovementTypeAdjustmentIncrease
	if in.Delta.IsNegative() {
		movementType = stock.MovementTypeAdjustmentDecrease
	}

	cost := balance.UnitCost()
	if err := balance.Adjust(in.Delta); err != nil {
		return nil, nil, err
	}

	movement, err := stock.NewMovement(
		in.BranchID, in.ItemID, in.Kind,
		movementType,
		in.Delta.Abs(),
		cost.Foreign, cost.Base,
		balance.Quantity,
		in.SourceType, in.SourceID,
		in.ActorID,
	)
	if err != nil {
		return nil, nil, err
	}
	decorateMovement(movement, in.Reason, in.Date)

	if err := repos.BalanceRepo().SaveWithLock(ctx, balance); err != nil {
		return nil, nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, nil, err
	}

	return movement, balance, nil
}

func decorateMovement(m *stock.Movement, reason string, date time.Time) {
	if reason != "" {
		m.WithReason(reason)
	}
	if !date.IsZero() {
		m.WithMovementDate(date)
	}
}

// RunWithConflictRetry executes fn, retrying a bounded number of times when it
// fails with an optimistic-lock conflict. Business-rule failures are never
// retried. fn must be safe to re-run from scratch, which holds for transaction
// scopes that re-read state on each attempt.
func RunWithConflictRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}
