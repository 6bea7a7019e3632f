package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// movementOrderable lists the columns a movement listing may be ordered by
var movementOrderable = map[string]bool{
	"created_at":    true,
	"movement_date": true,
	"movement_type": true,
	"quantity":      true,
}

// inboundMovementTypes are the movement types that count positive when
// replaying the ledger; everything else counts negative.
var inboundMovementTypes = []stock.MovementType{
	stock.MovementTypeReceipt,
	stock.MovementTypeProductionIn,
	stock.MovementTypeTransferIn,
	stock.MovementTypeReturn,
	stock.MovementTypeAdjustmentIncrease,
}

// GormMovementRepository implements MovementRepository using GORM.
// Movements are append-only; this repository never updates or deletes.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	var movement stock.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByKey finds movements for a branch-item-kind combination
func (r *GormMovementRepository) FindByKey(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind, filter shared.Filter) ([]stock.Movement, error) {
	var movements []stock.Movement
	query := applyFilter(
		r.db.WithContext(ctx).Model(&stock.Movement{}).
			Where("branch_id = ? AND item_id = ? AND kind = ?", branchID, itemID, kind),
		filter,
		movementOrderable,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindBySource finds movements caused by a source document, for audit trace-back
func (r *GormMovementRepository) FindBySource(ctx context.Context, sourceType stock.SourceType, sourceID string) ([]stock.Movement, error) {
	var movements []stock.Movement
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByBranch finds movements at a branch
func (r *GormMovementRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]stock.Movement, error) {
	var movements []stock.Movement
	query := applyFilter(
		r.db.WithContext(ctx).Model(&stock.Movement{}).
			Where("branch_id = ?", branchID),
		filter,
		movementOrderable,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByDateRange finds movements within a date range
func (r *GormMovementRepository) FindByDateRange(ctx context.Context, branchID uuid.UUID, start, end time.Time, filter shared.Filter) ([]stock.Movement, error) {
	var movements []stock.Movement
	query := applyFilter(
		r.db.WithContext(ctx).Model(&stock.Movement{}).
			Where("branch_id = ? AND movement_date >= ? AND movement_date <= ?", branchID, start, end),
		filter,
		movementOrderable,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Create appends a new movement
func (r *GormMovementRepository) Create(ctx context.Context, movement *stock.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// CountByKey counts movements for a branch-item-kind combination
func (r *GormMovementRepository) CountByKey(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&stock.Movement{}).
		Where("branch_id = ? AND item_id = ? AND kind = ?", branchID, itemID, kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumDeltaByKey sums signed deltas for a branch-item-kind combination.
// Inbound movement types count positive, outbound negative; the result must
// equal the stored balance quantity.
func (r *GormMovementRepository) SumDeltaByKey(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&stock.Movement{}).
		Select("COALESCE(SUM(CASE WHEN movement_type IN ? THEN quantity ELSE -quantity END), 0)", inboundMovementTypes).
		Where("branch_id = ? AND item_id = ? AND kind = ?", branchID, itemID, kind).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

var _ stock.MovementRepository = (*GormMovementRepository)(nil)
