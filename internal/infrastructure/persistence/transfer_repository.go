package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transferOrderable lists the columns a transfer listing may be ordered by
var transferOrderable = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"transfer_number": true,
	"status":          true,
	"sent_at":         true,
	"received_at":     true,
}

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer with its lines
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	var t transfer.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByNumber finds a transfer by its document number
func (r *GormTransferRepository) FindByNumber(ctx context.Context, transferNumber string) (*transfer.Transfer, error) {
	var t transfer.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("transfer_number = ?", transferNumber).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByBranch finds transfers where the branch is source or destination.
// An empty status matches all statuses.
func (r *GormTransferRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, status transfer.TransferStatus, filter shared.Filter) ([]transfer.Transfer, error) {
	query := r.db.WithContext(ctx).Model(&transfer.Transfer{}).
		Where("source_branch_id = ? OR dest_branch_id = ?", branchID, branchID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var transfers []transfer.Transfer
	if err := applyFilter(query, filter, transferOrderable).
		Preload("Lines").
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save creates or updates a transfer and its lines
func (r *GormTransferRepository) Save(ctx context.Context, t *transfer.Transfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(t).Error; err != nil {
			return err
		}
		return saveTransferLines(tx, t)
	})
}

// SaveWithLock saves with optimistic locking. The version has already been
// incremented by the domain transition; zero affected rows means another
// transaction won the race.
func (r *GormTransferRepository) SaveWithLock(ctx context.Context, t *transfer.Transfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&transfer.Transfer{}).
			Where("id = ? AND version = ?", t.ID, t.Version-1).
			Updates(map[string]interface{}{
				"status":       t.Status,
				"sent_at":      t.SentAt,
				"received_at":  t.ReceivedAt,
				"cancelled_at": t.CancelledAt,
				"version":      t.Version,
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return saveTransferLines(tx, t)
	})
}

// NextTransferNumber generates the next sequential transfer number for the date
func (r *GormTransferRepository) NextTransferNumber(ctx context.Context) (string, error) {
	return nextDocNumber(ctx, r.db, &transfer.Transfer{}, "transfer_number", "TR")
}

func saveTransferLines(tx *gorm.DB, t *transfer.Transfer) error {
	for i := range t.Lines {
		t.Lines[i].TransferID = t.ID
		if err := tx.Save(&t.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ transfer.TransferRepository = (*GormTransferRepository)(nil)
