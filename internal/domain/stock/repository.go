package stock

import (
	"context"
	"time"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBalanceRepository defines the interface for stock balance persistence
type StockBalanceRepository interface {
	// FindByID finds a balance by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockBalance, error)

	// FindByKey finds the balance for a branch-item-kind combination
	FindByKey(ctx context.Context, branchID, itemID uuid.UUID, kind ItemKind) (*StockBalance, error)

	// FindByBranch finds all balances held at a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, kind ItemKind, filter shared.Filter) ([]StockBalance, error)

	// GetOrCreate gets the existing balance or creates an empty one
	GetOrCreate(ctx context.Context, branchID, itemID uuid.UUID, kind ItemKind) (*StockBalance, error)

	// Save creates or updates a balance
	Save(ctx context.Context, balance *StockBalance) error

	// SaveWithLock saves with optimistic locking (checks version); returns
	// shared.ErrConcurrencyConflict when another transaction got there first
	SaveWithLock(ctx context.Context, balance *StockBalance) error

	// CountByBranch counts balances held at a branch
	CountByBranch(ctx context.Context, branchID uuid.UUID, kind ItemKind) (int64, error)

	// SumValueByBranch sums quantity * base unit cost across a branch
	SumValueByBranch(ctx context.Context, branchID uuid.UUID, kind ItemKind) (decimal.Decimal, error)
}

// MovementRepository defines the interface for movement persistence.
// Movements are append-only; there are no update or delete operations.
type MovementRepository interface {
	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// FindByKey finds movements for a branch-item-kind combination
	FindByKey(ctx context.Context, branchID, itemID uuid.UUID, kind ItemKind, filter shared.Filter) ([]Movement, error)

	// FindBySource finds movements caused by a source document, for audit trace-back
	FindBySource(ctx context.Context, sourceType SourceType, sourceID string) ([]Movement, error)

	// FindByBranch finds movements at a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// FindByDateRange finds movements within a date range
	FindByDateRange(ctx context.Context, branchID uuid.UUID, start, end time.Time, filter shared.Filter) ([]Movement, error)

	// Create appends a new movement
	Create(ctx context.Context, movement *Movement) error

	// CountByKey counts movements for a branch-item-kind combination
	CountByKey(ctx context.Context, branchID, itemID uuid.UUID, kind ItemKind) (int64, error)

	// SumDeltaByKey sums signed deltas for a branch-item-kind combination.
	// The result must equal the StockBalance quantity (replay invariant).
	SumDeltaByKey(ctx context.Context, branchID, itemID uuid.UUID, kind ItemKind) (decimal.Decimal, error)
}
