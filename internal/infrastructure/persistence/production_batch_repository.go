package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/foodworks/backend/internal/domain/production"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// batchOrderable lists the columns a batch listing may be ordered by
var batchOrderable = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"batch_number": true,
	"status":       true,
	"started_at":   true,
	"completed_at": true,
}

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch with its lines
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionBatch, error) {
	var batch production.ProductionBatch
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByNumber finds a batch by its document number
func (r *GormBatchRepository) FindByNumber(ctx context.Context, batchNumber string) (*production.ProductionBatch, error) {
	var batch production.ProductionBatch
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("batch_number = ?", batchNumber).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByBranch finds batches at a branch. An empty status matches all statuses.
func (r *GormBatchRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, status production.BatchStatus, filter shared.Filter) ([]production.ProductionBatch, error) {
	query := r.db.WithContext(ctx).Model(&production.ProductionBatch{}).
		Where("branch_id = ?", branchID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var batches []production.ProductionBatch
	if err := applyFilter(query, filter, batchOrderable).
		Preload("Lines").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch and its lines
func (r *GormBatchRepository) Save(ctx context.Context, batch *production.ProductionBatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(batch).Error; err != nil {
			return err
		}
		return saveBatchLines(tx, batch)
	})
}

// SaveWithLock saves with optimistic locking. The version has already been
// incremented by the domain transition; zero affected rows means another
// transaction won the race.
func (r *GormBatchRepository) SaveWithLock(ctx context.Context, batch *production.ProductionBatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&production.ProductionBatch{}).
			Where("id = ? AND version = ?", batch.ID, batch.Version-1).
			Updates(map[string]interface{}{
				"status":                   batch.Status,
				"output_qty":               batch.OutputQty,
				"output_unit_cost_foreign": batch.OutputUnitCostForeign,
				"output_unit_cost_base":    batch.OutputUnitCostBase,
				"started_at":               batch.StartedAt,
				"completed_at":             batch.CompletedAt,
				"cancelled_at":             batch.CancelledAt,
				"version":                  batch.Version,
				"updated_at":               time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return saveBatchLines(tx, batch)
	})
}

// CountByBranch counts batches at a branch in the given status
func (r *GormBatchRepository) CountByBranch(ctx context.Context, branchID uuid.UUID, status production.BatchStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&production.ProductionBatch{}).
		Where("branch_id = ? AND status = ?", branchID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextBatchNumber generates the next sequential batch number for the date
func (r *GormBatchRepository) NextBatchNumber(ctx context.Context) (string, error) {
	return nextDocNumber(ctx, r.db, &production.ProductionBatch{}, "batch_number", "PB")
}

func saveBatchLines(tx *gorm.DB, batch *production.ProductionBatch) error {
	for i := range batch.Lines {
		batch.Lines[i].BatchID = batch.ID
		if err := tx.Save(&batch.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ production.BatchRepository = (*GormBatchRepository)(nil)
