package persistence

import (
	"context"

	apptransfer "github.com/foodworks/backend/internal/application/transfer"
	"github.com/foodworks/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransferTransactionScope implements the transfer TransactionScope using
// GORM transactions. A transfer transition and all its ledger effects commit
// or roll back as one unit.
type GormTransferTransactionScope struct {
	db *gorm.DB
}

// NewGormTransferTransactionScope creates a new GormTransferTransactionScope
func NewGormTransferTransactionScope(db *gorm.DB) *GormTransferTransactionScope {
	return &GormTransferTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransferTransactionScope) Execute(ctx context.Context, fn func(repos apptransfer.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransferRepositories{gormLedgerRepositories{tx: tx}})
	})
}

// gormTransferRepositories provides transfer repositories bound to one transaction
type gormTransferRepositories struct {
	gormLedgerRepositories
}

// TransferRepo returns the transfer repository scoped to the current transaction
func (r *gormTransferRepositories) TransferRepo() transfer.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

var _ apptransfer.TransactionScope = (*GormTransferTransactionScope)(nil)
var _ apptransfer.TransactionalRepositories = (*gormTransferRepositories)(nil)
