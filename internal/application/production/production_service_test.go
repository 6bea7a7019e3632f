package production

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/foodworks/backend/internal/domain/catalog"
	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/production"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories with snapshot rollback back the service tests, so a
// completion that fails halfway leaves balances exactly as a database
// transaction would.

type memBalanceRepo struct {
	balances map[string]*stock.StockBalance
}

func newMemBalanceRepo() *memBalanceRepo {
	return &memBalanceRepo{balances: make(map[string]*stock.StockBalance)}
}

func balanceKey(branchID, itemID uuid.UUID, kind stock.ItemKind) string {
	return branchID.String() + "|" + itemID.String() + "|" + kind.String()
}

func copyBalance(b *stock.StockBalance) *stock.StockBalance {
	clone := *b
	return &clone
}

func (r *memBalanceRepo) snapshot() map[string]*stock.StockBalance {
	snap := make(map[string]*stock.StockBalance, len(r.balances))
	for k, v := range r.balances {
		snap[k] = copyBalance(v)
	}
	return snap
}

func (r *memBalanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockBalance, error) {
	for _, b := range r.balances {
		if b.ID == id {
			return copyBalance(b), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBalanceRepo) FindByKey(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind) (*stock.StockBalance, error) {
	b, ok := r.balances[balanceKey(branchID, itemID, kind)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyBalance(b), nil
}

func (r *memBalanceRepo) FindByBranch(ctx context.Context, branchID uuid.UUID, kind stock.ItemKind, filter shared.Filter) ([]stock.StockBalance, error) {
	var out []stock.StockBalance
	for _, b := range r.balances {
		if b.BranchID == branchID && b.Kind == kind {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBalanceRepo) GetOrCreate(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind) (*stock.StockBalance, error) {
	if b, ok := r.balances[balanceKey(branchID, itemID, kind)]; ok {
		return copyBalance(b), nil
	}
	return stock.NewStockBalance(branchID, itemID, kind)
}

func (r *memBalanceRepo) Save(ctx context.Context, balance *stock.StockBalance) error {
	r.balances[balanceKey(balance.BranchID, balance.ItemID, balance.Kind)] = copyBalance(balance)
	return nil
}

func (r *memBalanceRepo) SaveWithLock(ctx context.Context, balance *stock.StockBalance) error {
	return r.Save(ctx, balance)
}

func (r *memBalanceRepo) CountByBranch(ctx context.Context, branchID uuid.UUID, kind stock.ItemKind) (int64, error) {
	all, _ := r.FindByBranch(ctx, branchID, kind, shared.Filter{})
	return int64(len(all)), nil
}

func (r *memBalanceRepo) SumValueByBranch(ctx context.Context, branchID uuid.UUID, kind stock.ItemKind) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, b := range r.balances {
		if b.BranchID == branchID && b.Kind == kind {
			sum = sum.Add(b.Quantity.Mul(b.UnitCostBase))
		}
	}
	return sum, nil
}

type memMovementRepo struct {
	movements []*stock.Movement
}

func (r *memMovementRepo) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindByKey(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind, filter shared.Filter) ([]stock.Movement, error) {
	var out []stock.Movement
	for _, m := range r.movements {
		if m.BranchID == branchID && m.ItemID == itemID && m.Kind == kind {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindBySource(ctx context.Context, sourceType stock.SourceType, sourceID string) ([]stock.Movement, error) {
	var out []stock.Movement
	for _, m := range r.movements {
		if m.SourceType == sourceType && m.SourceID == sourceID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]stock.Movement, error) {
	var out []stock.Movement
	for _, m := range r.movements {
		if m.BranchID == branchID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindByDateRange(ctx context.Context, branchID uuid.UUID, start, end time.Time, filter shared.Filter) ([]stock.Movement, error) {
	return r.FindByBranch(ctx, branchID, filter)
}

func (r *memMovementRepo) Create(ctx context.Context, movement *stock.Movement) error {
	r.movements = append(r.movements, movement)
	return nil
}

func (r *memMovementRepo) CountByKey(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind) (int64, error) {
	found, _ := r.FindByKey(ctx, branchID, itemID, kind, shared.Filter{})
	return int64(len(found)), nil
}

func (r *memMovementRepo) SumDeltaByKey(ctx context.Context, branchID, itemID uuid.UUID, kind stock.ItemKind) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.BranchID == branchID && m.ItemID == itemID && m.Kind == kind {
			sum = sum.Add(m.SignedDelta())
		}
	}
	return sum, nil
}

type memBatchRepo struct {
	batches map[uuid.UUID]*production.ProductionBatch
	nextSeq int
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: make(map[uuid.UUID]*production.ProductionBatch)}
}

func copyBatch(b *production.ProductionBatch) *production.ProductionBatch {
	clone := *b
	clone.Lines = append([]production.BatchLine(nil), b.Lines...)
	return &clone
}

func (r *memBatchRepo) snapshot() map[uuid.UUID]*production.ProductionBatch {
	snap := make(map[uuid.UUID]*production.ProductionBatch, len(r.batches))
	for k, v := range r.batches {
		snap[k] = copyBatch(v)
	}
	return snap
}

func (r *memBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyBatch(b), nil
}

func (r *memBatchRepo) FindByNumber(ctx context.Context, batchNumber string) (*production.ProductionBatch, error) {
	for _, b := range r.batches {
		if b.BatchNumber == batchNumber {
			return copyBatch(b), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBatchRepo) FindByBranch(ctx context.Context, branchID uuid.UUID, status production.BatchStatus, filter shared.Filter) ([]production.ProductionBatch, error) {
	var out []production.ProductionBatch
	for _, b := range r.batches {
		if b.BranchID != branchID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *memBatchRepo) Save(ctx context.Context, batch *production.ProductionBatch) error {
	r.batches[batch.ID] = copyBatch(batch)
	return nil
}

func (r *memBatchRepo) SaveWithLock(ctx context.Context, batch *production.ProductionBatch) error {
	return r.Save(ctx, batch)
}

func (r *memBatchRepo) CountByBranch(ctx context.Context, branchID uuid.UUID, status production.BatchStatus) (int64, error) {
	var n int64
	for _, b := range r.batches {
		if b.BranchID == branchID && b.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memBatchRepo) NextBatchNumber(ctx context.Context) (string, error) {
	r.nextSeq++
	return fmt.Sprintf("PB-%s-%04d", time.Now().Format("20060102"), r.nextSeq), nil
}

type memRecipeCatalog struct {
	versions map[uuid.UUID]*catalog.RecipeVersion
}

func (c *memRecipeCatalog) FindVersionByID(ctx context.Context, versionID uuid.UUID) (*catalog.RecipeVersion, error) {
	v, ok := c.versions[versionID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

type memRepos struct {
	balances  *memBalanceRepo
	movements *memMovementRepo
	batches   *memBatchRepo
}

func (r memRepos) BalanceRepo() stock.StockBalanceRepository  { return r.balances }
func (r memRepos) MovementRepo() stock.MovementRepository     { return r.movements }
func (r memRepos) BatchRepo() production.BatchRepository      { return r.batches }

// memScope restores all stores when fn fails, mimicking transaction rollback
type memScope struct {
	repos memRepos
}

func (s memScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	balanceSnap := s.repos.balances.snapshot()
	movementSnap := append([]*stock.Movement(nil), s.repos.movements.movements...)
	batchSnap := s.repos.batches.snapshot()

	if err := fn(s.repos); err != nil {
		s.repos.balances.balances = balanceSnap
		s.repos.movements.movements = movementSnap
		s.repos.batches.batches = batchSnap
		return err
	}
	return nil
}

type productionFixture struct {
	service    *ProductionService
	balances   *memBalanceRepo
	movements  *memMovementRepo
	batches    *memBatchRepo
	branchID   uuid.UUID
	actorID    uuid.UUID
	productID  uuid.UUID
	flourID    uuid.UUID
	sugarID    uuid.UUID
	recipeID   uuid.UUID
}

// newProductionFixture wires a recipe producing one cake from 0.5 flour and
// 0.2 sugar per unit
func newProductionFixture(t *testing.T) *productionFixture {
	t.Helper()
	f := &productionFixture{
		balances:  newMemBalanceRepo(),
		movements: &memMovementRepo{},
		batches:   newMemBatchRepo(),
		branchID:  uuid.New(),
		actorID:   uuid.New(),
		productID: uuid.New(),
		flourID:   uuid.New(),
		sugarID:   uuid.New(),
		recipeID:  uuid.New(),
	}

	recipe := &catalog.RecipeVersion{
		BaseEntity: shared.NewBaseEntity(),
		RecipeID:   uuid.New(),
		ProductID:  f.productID,
		Version:    1,
		Name:       "Vanilla Cake v1",
		Lines: []catalog.RecipeLine{
			{LineNumber: 1, IngredientID: f.flourID, QuantityPerUnit: decimal.RequireFromString("0.5"), Unit: "kg"},
			{LineNumber: 2, IngredientID: f.sugarID, QuantityPerUnit: decimal.RequireFromString("0.2"), Unit: "kg"},
		},
	}
	recipe.ID = f.recipeID
	catalogRepo := &memRecipeCatalog{versions: map[uuid.UUID]*catalog.RecipeVersion{f.recipeID: recipe}}

	repos := memRepos{balances: f.balances, movements: f.movements, batches: f.batches}
	f.service = NewProductionService(memScope{repos: repos}, f.batches, f.balances, catalogRepo)
	return f
}

func (f *productionFixture) seedIngredient(t *testing.T, itemID uuid.UUID, qty, costForeign, costBase string) {
	t.Helper()
	balance, err := stock.NewStockBalance(f.branchID, itemID, stock.ItemKindIngredient)
	require.NoError(t, err)
	cost := costing.DualCost{
		Foreign: decimal.RequireFromString(costForeign),
		Base:    decimal.RequireFromString(costBase),
	}
	require.NoError(t, balance.Credit(decimal.RequireFromString(qty), cost))
	require.NoError(t, f.balances.Save(context.Background(), balance))
}

func (f *productionFixture) planBatch(t *testing.T, plannedQty string) *BatchResponse {
	t.Helper()
	resp, err := f.service.Create(context.Background(), f.actorID, CreateBatchRequest{
		BranchID:        f.branchID,
		RecipeVersionID: f.recipeID,
		PlannedQty:      decimal.RequireFromString(plannedQty),
	})
	require.NoError(t, err)
	return resp
}

func (f *productionFixture) startedBatch(t *testing.T, plannedQty string) *BatchResponse {
	t.Helper()
	created := f.planBatch(t, plannedQty)
	started, err := f.service.Start(context.Background(), created.ID)
	require.NoError(t, err)
	return started
}

func TestProductionService_Create(t *testing.T) {
	t.Run("should plan batch with scaled ingredient lines", func(t *testing.T) {
		f := newProductionFixture(t)

		resp := f.planBatch(t, "100")

		assert.Equal(t, "PLANNED", resp.Status)
		assert.NotEmpty(t, resp.BatchNumber)
		require.Len(t, resp.Lines, 2)
		assert.Equal(t, "50", resp.Lines[0].Quantity.String())
		assert.Equal(t, "20", resp.Lines[1].Quantity.String())
	})

	t.Run("should fail when recipe version does not exist", func(t *testing.T) {
		f := newProductionFixture(t)

		_, err := f.service.Create(context.Background(), f.actorID, CreateBatchRequest{
			BranchID:        f.branchID,
			RecipeVersionID: uuid.New(),
			PlannedQty:      decimal.NewFromInt(10),
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("should fail with non-positive planned quantity", func(t *testing.T) {
		f := newProductionFixture(t)

		_, err := f.service.Create(context.Background(), f.actorID, CreateBatchRequest{
			BranchID:        f.branchID,
			RecipeVersionID: f.recipeID,
			PlannedQty:      decimal.Zero,
		})

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestProductionService_CheckAvailability(t *testing.T) {
	t.Run("should report nothing when stock covers the plan", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "100", "2", "24000")
		f.seedIngredient(t, f.sugarID, "50", "3", "36000")
		created := f.planBatch(t, "100")

		short, err := f.service.CheckAvailability(context.Background(), created.ID)

		require.NoError(t, err)
		assert.Empty(t, short)
	})

	t.Run("should report shortage with available quantity", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "30", "2", "24000")
		f.seedIngredient(t, f.sugarID, "50", "3", "36000")
		created := f.planBatch(t, "100")

		short, err := f.service.CheckAvailability(context.Background(), created.ID)

		require.NoError(t, err)
		require.Len(t, short, 1)
		assert.Equal(t, f.flourID, short[0].IngredientID)
		assert.Equal(t, "50", short[0].Required.String())
		assert.Equal(t, "30", short[0].Available.String())
	})

	t.Run("should report full shortage for an item never stocked", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "100", "2", "24000")
		created := f.planBatch(t, "100")

		short, err := f.service.CheckAvailability(context.Background(), created.ID)

		require.NoError(t, err)
		require.Len(t, short, 1)
		assert.Equal(t, f.sugarID, short[0].IngredientID)
		assert.True(t, short[0].Available.IsZero())
	})
}

func TestProductionService_Start(t *testing.T) {
	t.Run("should start planned batch when stock is available", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "100", "2", "24000")
		f.seedIngredient(t, f.sugarID, "50", "3", "36000")
		created := f.planBatch(t, "100")

		resp, err := f.service.Start(context.Background(), created.ID)

		require.NoError(t, err)
		assert.Equal(t, "IN_PROGRESS", resp.Status)
		assert.NotNil(t, resp.StartedAt)

		// advisory check only, nothing deducted
		flour, findErr := f.balances.FindByKey(context.Background(), f.branchID, f.flourID, stock.ItemKindIngredient)
		require.NoError(t, findErr)
		assert.Equal(t, "100", flour.Quantity.String())
	})

	t.Run("should refuse to start when an ingredient is short", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "30", "2", "24000")
		f.seedIngredient(t, f.sugarID, "50", "3", "36000")
		created := f.planBatch(t, "100")

		_, err := f.service.Start(context.Background(), created.ID)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("should fail when batch is not planned", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "100", "2", "24000")
		f.seedIngredient(t, f.sugarID, "50", "3", "36000")
		started := f.startedBatch(t, "100")

		_, err := f.service.Start(context.Background(), started.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestProductionService_Complete(t *testing.T) {
	t.Run("should debit ingredients and credit output at derived cost", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "100", "2", "24000")
		f.seedIngredient(t, f.sugarID, "50", "3", "36000")
		started := f.startedBatch(t, "100")

		resp, err := f.service.Complete(context.Background(), f.actorID, started.ID, CompleteBatchRequest{
			ActualLines: []ActualLineRequest{
				{IngredientID: f.flourID, Quantity: decimal.RequireFromString("50"), Unit: "kg"},
				{IngredientID: f.sugarID, Quantity: decimal.RequireFromString("20"), Unit: "kg"},
			},
			OutputQty: decimal.RequireFromString("80"),
		})

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", resp.Status)
		assert.Equal(t, "80", resp.OutputQty.String())
		// consumed: 50*2 + 20*3 = 160 foreign over 80 units
		assert.Equal(t, "2", resp.OutputUnitCostForeign.String())
		assert.Equal(t, "24000", resp.OutputUnitCostBase.String())

		flour, findErr := f.balances.FindByKey(context.Background(), f.branchID, f.flourID, stock.ItemKindIngredient)
		require.NoError(t, findErr)
		assert.Equal(t, "50", flour.Quantity.String())

		product, findErr := f.balances.FindByKey(context.Background(), f.branchID, f.productID, stock.ItemKindProduct)
		require.NoError(t, findErr)
		assert.Equal(t, "80", product.Quantity.String())
		assert.Equal(t, "2", product.UnitCostForeign.String())

		movements, findErr := f.movements.FindBySource(context.Background(), stock.SourceTypeProductionBatch, resp.BatchNumber)
		require.NoError(t, findErr)
		assert.Len(t, movements, 3)
	})

	t.Run("should roll back all lines when one ingredient is short", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "100", "2", "24000")
		f.seedIngredient(t, f.sugarID, "5", "3", "36000")
		created := f.planBatch(t, "100")
		// bypass the advisory check; completion is where the ledger decides
		stored, err := f.batches.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		require.NoError(t, stored.Start())
		require.NoError(t, f.batches.Save(context.Background(), stored))

		_, err = f.service.Complete(context.Background(), f.actorID, created.ID, CompleteBatchRequest{
			ActualLines: []ActualLineRequest{
				{IngredientID: f.flourID, Quantity: decimal.RequireFromString("50"), Unit: "kg"},
				{IngredientID: f.sugarID, Quantity: decimal.RequireFromString("20"), Unit: "kg"},
			},
			OutputQty: decimal.RequireFromString("80"),
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		// the flour debit from the failed attempt must not stick
		flour, findErr := f.balances.FindByKey(context.Background(), f.branchID, f.flourID, stock.ItemKindIngredient)
		require.NoError(t, findErr)
		assert.Equal(t, "100", flour.Quantity.String())

		batch, findErr := f.batches.FindByID(context.Background(), created.ID)
		require.NoError(t, findErr)
		assert.Equal(t, production.BatchStatusInProgress, batch.Status)
	})

	t.Run("should fail when batch is not in progress", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "100", "2", "24000")
		f.seedIngredient(t, f.sugarID, "50", "3", "36000")
		created := f.planBatch(t, "100")

		_, err := f.service.Complete(context.Background(), f.actorID, created.ID, CompleteBatchRequest{
			ActualLines: []ActualLineRequest{
				{IngredientID: f.flourID, Quantity: decimal.RequireFromString("50"), Unit: "kg"},
			},
			OutputQty: decimal.RequireFromString("80"),
		})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestProductionService_Cancel(t *testing.T) {
	t.Run("should cancel planned batch", func(t *testing.T) {
		f := newProductionFixture(t)
		created := f.planBatch(t, "100")

		resp, err := f.service.Cancel(context.Background(), created.ID)

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
	})

	t.Run("should succeed as no-op when already cancelled", func(t *testing.T) {
		f := newProductionFixture(t)
		created := f.planBatch(t, "100")
		_, err := f.service.Cancel(context.Background(), created.ID)
		require.NoError(t, err)

		resp, err := f.service.Cancel(context.Background(), created.ID)

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
	})

	t.Run("should fail when batch is completed", func(t *testing.T) {
		f := newProductionFixture(t)
		f.seedIngredient(t, f.flourID, "100", "2", "24000")
		f.seedIngredient(t, f.sugarID, "50", "3", "36000")
		started := f.startedBatch(t, "100")
		_, err := f.service.Complete(context.Background(), f.actorID, started.ID, CompleteBatchRequest{
			ActualLines: []ActualLineRequest{
				{IngredientID: f.flourID, Quantity: decimal.RequireFromString("50"), Unit: "kg"},
				{IngredientID: f.sugarID, Quantity: decimal.RequireFromString("20"), Unit: "kg"},
			},
			OutputQty: decimal.RequireFromString("80"),
		})
		require.NoError(t, err)

		_, err = f.service.Cancel(context.Background(), started.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}
