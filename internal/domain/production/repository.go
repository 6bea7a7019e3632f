package production

import (
	"context"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BatchRepository defines the interface for production batch persistence
type BatchRepository interface {
	// FindByID finds a batch with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionBatch, error)

	// FindByNumber finds a batch by its document number
	FindByNumber(ctx context.Context, batchNumber string) (*ProductionBatch, error)

	// FindByBranch finds batches at a branch, optionally filtered by status
	FindByBranch(ctx context.Context, branchID uuid.UUID, status BatchStatus, filter shared.Filter) ([]ProductionBatch, error)

	// Save creates or updates a batch and its lines
	Save(ctx context.Context, batch *ProductionBatch) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, batch *ProductionBatch) error

	// CountByBranch counts batches at a branch in the given status
	CountByBranch(ctx context.Context, branchID uuid.UUID, status BatchStatus) (int64, error)

	// NextBatchNumber generates the next sequential batch number for the date
	NextBatchNumber(ctx context.Context) (string, error)
}
