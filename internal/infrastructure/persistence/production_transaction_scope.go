package persistence

import (
	"context"

	appproduction "github.com/foodworks/backend/internal/application/production"
	"github.com/foodworks/backend/internal/domain/production"
	"gorm.io/gorm"
)

// GormProductionTransactionScope implements the production TransactionScope
// using GORM transactions. A batch transition and all its ledger effects
// commit or roll back as one unit.
type GormProductionTransactionScope struct {
	db *gorm.DB
}

// NewGormProductionTransactionScope creates a new GormProductionTransactionScope
func NewGormProductionTransactionScope(db *gorm.DB) *GormProductionTransactionScope {
	return &GormProductionTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormProductionTransactionScope) Execute(ctx context.Context, fn func(repos appproduction.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormProductionRepositories{gormLedgerRepositories{tx: tx}})
	})
}

// gormProductionRepositories provides production repositories bound to one transaction
type gormProductionRepositories struct {
	gormLedgerRepositories
}

// BatchRepo returns the batch repository scoped to the current transaction
func (r *gormProductionRepositories) BatchRepo() production.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

var _ appproduction.TransactionScope = (*GormProductionTransactionScope)(nil)
var _ appproduction.TransactionalRepositories = (*gormProductionRepositories)(nil)
