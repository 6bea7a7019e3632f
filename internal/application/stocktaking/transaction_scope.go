package stocktaking

import (
	"context"

	appstock "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/domain/stocktaking"
)

// TransactionScope provides transactional access to the stock taking and
// ledger repositories. Completing a count and its reconciliation adjustments
// commit or roll back as one unit.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a count transition
// needs within one transaction.
type TransactionalRepositories interface {
	appstock.TransactionalRepositories

	// StockTakingRepo returns the stock taking repository scoped to the current transaction
	StockTakingRepo() stocktaking.StockTakingRepository
}
