package transfer

import (
	"context"

	appstock "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/domain/transfer"
)

// TransactionScope provides transactional access to the transfer and ledger
// repositories. A transfer transition and all its ledger effects commit or
// roll back as one unit.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a transfer transition
// needs within one transaction.
type TransactionalRepositories interface {
	appstock.TransactionalRepositories

	// TransferRepo returns the transfer repository scoped to the current transaction
	TransferRepo() transfer.TransferRepository
}
