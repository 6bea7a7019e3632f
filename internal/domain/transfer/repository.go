package transfer

import (
	"context"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferRepository defines the interface for transfer persistence
type TransferRepository interface {
	// FindByID finds a transfer with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)

	// FindByNumber finds a transfer by its document number
	FindByNumber(ctx context.Context, transferNumber string) (*Transfer, error)

	// FindByBranch finds transfers where the branch is source or destination
	FindByBranch(ctx context.Context, branchID uuid.UUID, status TransferStatus, filter shared.Filter) ([]Transfer, error)

	// Save creates or updates a transfer and its lines
	Save(ctx context.Context, transfer *Transfer) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, transfer *Transfer) error

	// NextTransferNumber generates the next sequential transfer number for the date
	NextTransferNumber(ctx context.Context) (string, error)
}
