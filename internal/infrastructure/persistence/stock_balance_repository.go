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
	"gorm.io/gorm/clause"
)

// balanceOrderable lists the columns a balance listing may be ordered by
var balanceOrderable = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"quantity":          true,
	"unit_cost_foreign": true,
	"unit_cost_base":    true,
}

// GormStockBalanceRepository implements StockBalanceRepository using GORM
type GormStockBalanceRepository struct {
	db *gorm.DB
}

// NewGormStockBalanceRepository creates a new GormStockBalanceRepository
func NewGormStockBalanceRepository(db *gorm.DB) *GormStockBalanceRepository {
	return &GormStockBalanceRepository{db: db}
}

// FindByID finds a balance by its ID
func (r *GormStockBalanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockBalance, error) {
	var balance stock.StockBalance
	if err := r.db.WithContext(ctx).First(&balance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// FindByKey finds the balance for a branch-item-kind combination
func (r *GormStockBalanceRepository) FindByKey(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind) (*stock.StockBalance, error) {
	var balance stock.StockBalance
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND item_id = ? AND kind = ?", branchID, itemID, kind).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// FindByBranch finds all balances held at a branch
func (r *GormStockBalanceRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, kind stock.ItemKind, filter shared.Filter) ([]stock.StockBalance, error) {
	var balances []stock.StockBalance
	query := applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockBalance{}).
			Where("branch_id = ? AND kind = ?", branchID, kind),
		filter,
		balanceOrderable,
	)
	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// GetOrCreate gets the existing balance or creates an empty one. Concurrent
// first mutations of the same key race on the unique key index; ON CONFLICT
// DO NOTHING lets the loser fall through to a re-fetch of the winner's row.
func (r *GormStockBalanceRepository) GetOrCreate(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind) (*stock.StockBalance, error) {
	balance, err := r.FindByKey(ctx, branchID, itemID, kind)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	balance, err = stock.NewStockBalance(branchID, itemID, kind)
	if err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "branch_id"}, {Name: "item_id"}, {Name: "kind"}},
			DoNothing: true,
		}).
		Create(balance)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return r.FindByKey(ctx, branchID, itemID, kind)
	}
	return balance, nil
}

// Save creates or updates a balance
func (r *GormStockBalanceRepository) Save(ctx context.Context, balance *stock.StockBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

// SaveWithLock saves with optimistic locking. The balance version has already
// been incremented by the domain mutation, so the update matches the previous
// version; zero affected rows means another transaction won the race.
func (r *GormStockBalanceRepository) SaveWithLock(ctx context.Context, balance *stock.StockBalance) error {
	result := r.db.WithContext(ctx).Model(&stock.StockBalance{}).
		Where("id = ? AND version = ?", balance.ID, balance.Version-1).
		Updates(map[string]interface{}{
			"quantity":          balance.Quantity,
			"unit_cost_foreign": balance.UnitCostForeign,
			"unit_cost_base":    balance.UnitCostBase,
			"version":           balance.Version,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountByBranch counts balances held at a branch
func (r *GormStockBalanceRepository) CountByBranch(ctx context.Context, branchID uuid.UUID, kind stock.ItemKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&stock.StockBalance{}).
		Where("branch_id = ? AND kind = ?", branchID, kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumValueByBranch sums quantity * base unit cost across a branch
func (r *GormStockBalanceRepository) SumValueByBranch(ctx context.Context, branchID uuid.UUID, kind stock.ItemKind) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&stock.StockBalance{}).
		Select("COALESCE(SUM(quantity * unit_cost_base), 0)").
		Where("branch_id = ? AND kind = ?", branchID, kind).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

var _ stock.StockBalanceRepository = (*GormStockBalanceRepository)(nil)
