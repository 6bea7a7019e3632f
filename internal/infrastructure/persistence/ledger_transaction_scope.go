package persistence

import (
	"context"

	appstock "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements the ledger TransactionScope using
// GORM transactions. A balance update and its movement record commit or roll
// back together.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

// gormLedgerRepositories provides ledger repositories bound to one transaction
type gormLedgerRepositories struct {
	tx *gorm.DB
}

// BalanceRepo returns the stock balance repository scoped to the current transaction
func (r *gormLedgerRepositories) BalanceRepo() stock.StockBalanceRepository {
	return NewGormStockBalanceRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormLedgerRepositories) MovementRepo() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var _ appstock.TransactionScope = (*GormLedgerTransactionScope)(nil)
var _ appstock.TransactionalRepositories = (*gormLedgerRepositories)(nil)
