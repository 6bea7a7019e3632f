package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stocktaking"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// takingOrderable lists the columns a count listing may be ordered by
var takingOrderable = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"taking_number": true,
	"status":        true,
	"completed_at":  true,
}

// GormStockTakingRepository implements StockTakingRepository using GORM
type GormStockTakingRepository struct {
	db *gorm.DB
}

// NewGormStockTakingRepository creates a new GormStockTakingRepository
func NewGormStockTakingRepository(db *gorm.DB) *GormStockTakingRepository {
	return &GormStockTakingRepository{db: db}
}

// FindByID finds a count document with its lines
func (r *GormStockTakingRepository) FindByID(ctx context.Context, id uuid.UUID) (*stocktaking.StockTaking, error) {
	var taking stocktaking.StockTaking
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&taking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &taking, nil
}

// FindByNumber finds a count document by its document number
func (r *GormStockTakingRepository) FindByNumber(ctx context.Context, takingNumber string) (*stocktaking.StockTaking, error) {
	var taking stocktaking.StockTaking
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("taking_number = ?", takingNumber).
		First(&taking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &taking, nil
}

// FindByBranch finds count documents at a branch. An empty status matches all
// statuses.
func (r *GormStockTakingRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, status stocktaking.StockTakingStatus, filter shared.Filter) ([]stocktaking.StockTaking, error) {
	query := r.db.WithContext(ctx).Model(&stocktaking.StockTaking{}).
		Where("branch_id = ?", branchID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var takings []stocktaking.StockTaking
	if err := applyFilter(query, filter, takingOrderable).
		Preload("Lines").
		Find(&takings).Error; err != nil {
		return nil, err
	}
	return takings, nil
}

// Save creates or updates a count document and its lines
func (r *GormStockTakingRepository) Save(ctx context.Context, taking *stocktaking.StockTaking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(taking).Error; err != nil {
			return err
		}
		return saveTakingLines(tx, taking)
	})
}

// SaveWithLock saves with optimistic locking. The version has already been
// incremented by the domain transition; zero affected rows means another
// transaction won the race.
func (r *GormStockTakingRepository) SaveWithLock(ctx context.Context, taking *stocktaking.StockTaking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&stocktaking.StockTaking{}).
			Where("id = ? AND version = ?", taking.ID, taking.Version-1).
			Updates(map[string]interface{}{
				"status":       taking.Status,
				"started_at":   taking.StartedAt,
				"completed_at": taking.CompletedAt,
				"cancelled_at": taking.CancelledAt,
				"version":      taking.Version,
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return saveTakingLines(tx, taking)
	})
}

// NextTakingNumber generates the next sequential taking number for the date
func (r *GormStockTakingRepository) NextTakingNumber(ctx context.Context) (string, error) {
	return nextDocNumber(ctx, r.db, &stocktaking.StockTaking{}, "taking_number", "ST")
}

func saveTakingLines(tx *gorm.DB, taking *stocktaking.StockTaking) error {
	for i := range taking.Lines {
		taking.Lines[i].StockTakingID = taking.ID
		if err := tx.Save(&taking.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ stocktaking.StockTakingRepository = (*GormStockTakingRepository)(nil)
