package stocktaking

import (
	"context"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockTakingRepository defines the interface for count document persistence
type StockTakingRepository interface {
	// FindByID finds a count document with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*StockTaking, error)

	// FindByNumber finds a count document by its document number
	FindByNumber(ctx context.Context, takingNumber string) (*StockTaking, error)

	// FindByBranch finds count documents at a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, status StockTakingStatus, filter shared.Filter) ([]StockTaking, error)

	// Save creates or updates a count document and its lines
	Save(ctx context.Context, taking *StockTaking) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, taking *StockTaking) error

	// NextTakingNumber generates the next sequential taking number for the date
	NextTakingNumber(ctx context.Context) (string, error)
}
