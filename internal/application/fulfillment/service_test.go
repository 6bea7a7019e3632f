package fulfillment

import (
	"context"
	"testing"
	"time"

	appstock "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/domain/costing"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/shared/valueobject"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

type memRepos struct {
	balances  *memBalanceRepo
	movements *memMovementRepo
}

func (r memRepos) BalanceRepo() stock.StockBalanceRepository { return r.balances }
func (r memRepos) MovementRepo() stock.MovementRepository    { return r.movements }

// memScope restores both stores when fn fails, mimicking transaction rollback
type memScope struct {
	repos memRepos
}

func (s memScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	balanceSnap := s.repos.balances.snapshot()
	movementSnap := append([]*stock.Movement(nil), s.repos.movements.movements...)

	if err := fn(s.repos); err != nil {
		s.repos.balances.balances = balanceSnap
		s.repos.movements.movements = movementSnap
		return err
	}
	return nil
}

type staticRates struct {
	rate decimal.Decimal
}

func (p staticRates) RateFor(ctx context.Context, date time.Time) (valueobject.ExchangeRate, error) {
	return valueobject.NewExchangeRate(p.rate, date)
}

type fulfillmentFixture struct {
	service   *Service
	balances  *memBalanceRepo
	movements *memMovementRepo
	branchID  uuid.UUID
	actorID   uuid.UUID
	cakeID    uuid.UUID
}

func newFulfillmentFixture(t *testing.T) *fulfillmentFixture {
	t.Helper()
	f := &fulfillmentFixture{
		balances:  newMemBalanceRepo(),
		movements: &memMovementRepo{},
		branchID:  uuid.New(),
		actorID:   uuid.New(),
		cakeID:    uuid.New(),
	}
	repos := memRepos{balances: f.balances, movements: f.movements}
	f.service = NewService(memScope{repos: repos}, staticRates{rate: decimal.NewFromInt(12000)})
	return f
}

func (f *fulfillmentFixture) seedProduct(t *testing.T, qty, costForeign, costBase string) {
	t.Helper()
	balance, err := stock.NewStockBalance(f.branchID, f.cakeID, stock.ItemKindProduct)
	require.NoError(t, err)
	cost := costing.DualCost{
		Foreign: decimal.RequireFromString(costForeign),
		Base:    decimal.RequireFromString(costBase),
	}
	require.NoError(t, balance.Credit(decimal.RequireFromString(qty), cost))
	require.NoError(t, f.balances.Save(context.Background(), balance))
}

func (f *fulfillmentFixture) productBalance(t *testing.T) *stock.StockBalance {
	t.Helper()
	b, err := f.balances.FindByKey(context.Background(), f.branchID, f.cakeID, stock.ItemKindProduct)
	require.NoError(t, err)
	return b
}

func TestService_ConfirmShipment(t *testing.T) {
	t.Run("should debit shipped products at average cost", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.seedProduct(t, "30", "2", "24000")

		movements, err := f.service.ConfirmShipment(context.Background(), f.actorID, ConfirmShipmentRequest{
			BranchID: f.branchID,
			SaleRef:  "SO-20260901-0001",
			Lines: []ShipmentLineRequest{
				{ProductID: f.cakeID, Quantity: decimal.RequireFromString("12")},
			},
		})

		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, "SALE", movements[0].MovementType)
		assert.Equal(t, "2", movements[0].UnitCostForeign.String())
		assert.Equal(t, "-12", movements[0].SignedDelta.String())
		assert.Equal(t, "18", f.productBalance(t).Quantity.String())
	})

	t.Run("should reject the whole shipment when one line is short", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.seedProduct(t, "30", "2", "24000")
		otherID := uuid.New()

		_, err := f.service.ConfirmShipment(context.Background(), f.actorID, ConfirmShipmentRequest{
			BranchID: f.branchID,
			SaleRef:  "SO-20260901-0002",
			Lines: []ShipmentLineRequest{
				{ProductID: f.cakeID, Quantity: decimal.RequireFromString("10")},
				{ProductID: otherID, Quantity: decimal.RequireFromString("5")},
			},
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		// the first line must not stick
		assert.Equal(t, "30", f.productBalance(t).Quantity.String())
	})
}

func TestService_AcceptReturn(t *testing.T) {
	t.Run("should credit returned products at the supplied cost", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.seedProduct(t, "10", "2", "24000")

		movements, err := f.service.AcceptReturn(context.Background(), f.actorID, AcceptReturnRequest{
			BranchID:  f.branchID,
			ReturnRef: "SR-20260901-0001",
			Lines: []ReturnLineRequest{
				{ProductID: f.cakeID, Quantity: decimal.RequireFromString("5"), UnitCostForeign: decimal.RequireFromString("2")},
			},
		})

		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, "RETURN", movements[0].MovementType)
		assert.Equal(t, "5", movements[0].SignedDelta.String())
		assert.Equal(t, "24000", movements[0].UnitCostBase.String())
		assert.Equal(t, "15", f.productBalance(t).Quantity.String())
	})

	t.Run("should fold a differently priced return into the average", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.seedProduct(t, "10", "2", "24000")

		_, err := f.service.AcceptReturn(context.Background(), f.actorID, AcceptReturnRequest{
			BranchID:  f.branchID,
			ReturnRef: "SR-20260901-0002",
			Lines: []ReturnLineRequest{
				{ProductID: f.cakeID, Quantity: decimal.RequireFromString("5"), UnitCostForeign: decimal.RequireFromString("5")},
			},
		})

		require.NoError(t, err)
		// (10*2 + 5*5) / 15 = 3
		assert.Equal(t, "3", f.productBalance(t).UnitCostForeign.String())
	})

	t.Run("should fail with explicit invalid rate", func(t *testing.T) {
		f := newFulfillmentFixture(t)
		f.seedProduct(t, "10", "2", "24000")

		_, err := f.service.AcceptReturn(context.Background(), f.actorID, AcceptReturnRequest{
			BranchID:     f.branchID,
			ReturnRef:    "SR-20260901-0003",
			ExchangeRate: decimal.NewFromInt(-1),
			Lines: []ReturnLineRequest{
				{ProductID: f.cakeID, Quantity: decimal.NewFromInt(1), UnitCostForeign: decimal.NewFromInt(2)},
			},
		})

		require.Error(t, err)
	})
}
