package production

import (
	"context"

	appstock "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/domain/production"
)

// TransactionScope provides transactional access to the production and ledger
// repositories. A batch transition and all its ledger effects commit or roll
// back as one unit.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a production transition
// needs within one transaction.
type TransactionalRepositories interface {
	appstock.TransactionalRepositories

	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() production.BatchRepository
}
