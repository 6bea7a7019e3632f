package persistence

import (
	"context"

	appstocktaking "github.com/foodworks/backend/internal/application/stocktaking"
	"github.com/foodworks/backend/internal/domain/stocktaking"
	"gorm.io/gorm"
)

// GormStockTakingTransactionScope implements the stock taking TransactionScope
// using GORM transactions. Completing a count and its reconciliation
// adjustments commit or roll back as one unit.
type GormStockTakingTransactionScope struct {
	db *gorm.DB
}

// NewGormStockTakingTransactionScope creates a new GormStockTakingTransactionScope
func NewGormStockTakingTransactionScope(db *gorm.DB) *GormStockTakingTransactionScope {
	return &GormStockTakingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormStockTakingTransactionScope) Execute(ctx context.Context, fn func(repos appstocktaking.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStockTakingRepositories{gormLedgerRepositories{tx: tx}})
	})
}

// gormStockTakingRepositories provides count repositories bound to one transaction
type gormStockTakingRepositories struct {
	gormLedgerRepositories
}

// StockTakingRepo returns the stock taking repository scoped to the current transaction
func (r *gormStockTakingRepositories) StockTakingRepo() stocktaking.StockTakingRepository {
	return NewGormStockTakingRepository(r.tx)
}

var _ appstocktaking.TransactionScope = (*GormStockTakingTransactionScope)(nil)
var _ appstocktaking.TransactionalRepositories = (*gormStockTakingRepositories)(nil)
