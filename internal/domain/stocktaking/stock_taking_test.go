package stocktaking

import (
	"testing"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStockTaking(t *testing.T) *StockTaking {
	t.Helper()
	st, err := NewStockTaking("ST-20260901-0001", uuid.New(), stock.ItemKindIngredient, uuid.New())
	require.NoError(t, err)
	return st
}

func TestNewStockTaking(t *testing.T) {
	t.Run("creates draft document", func(t *testing.T) {
		branchID := uuid.New()
		st, err := NewStockTaking("ST-20260901-0001", branchID, stock.ItemKindProduct, uuid.New())

		require.NoError(t, err)
		assert.Equal(t, StockTakingStatusDraft, st.Status)
		assert.Equal(t, branchID, st.BranchID)
		assert.Empty(t, st.Lines)
	})

	t.Run("fails with empty taking number", func(t *testing.T) {
		st, err := NewStockTaking("", uuid.New(), stock.ItemKindProduct, uuid.New())

		require.Error(t, err)
		assert.Nil(t, st)
	})

	t.Run("fails with invalid kind", func(t *testing.T) {
		st, err := NewStockTaking("ST-20260901-0002", uuid.New(), stock.ItemKind("SERVICES"), uuid.New())

		require.Error(t, err)
		assert.Nil(t, st)
	})
}

func TestStockTaking_AddLine(t *testing.T) {
	t.Run("snapshots expected quantity", func(t *testing.T) {
		st := createTestStockTaking(t)

		err := st.AddLine(uuid.New(), decimal.NewFromInt(50))

		require.NoError(t, err)
		require.Len(t, st.Lines, 1)
		assert.Equal(t, "50", st.Lines[0].ExpectedQty.String())
		assert.False(t, st.Lines[0].Counted)
	})

	t.Run("rejects duplicate item", func(t *testing.T) {
		st := createTestStockTaking(t)
		itemID := uuid.New()
		require.NoError(t, st.AddLine(itemID, decimal.NewFromInt(10)))

		err := st.AddLine(itemID, decimal.NewFromInt(10))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("rejects negative expected quantity", func(t *testing.T) {
		st := createTestStockTaking(t)

		err := st.AddLine(uuid.New(), decimal.NewFromInt(-1))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("fails outside draft", func(t *testing.T) {
		st := createTestStockTaking(t)
		require.NoError(t, st.AddLine(uuid.New(), decimal.NewFromInt(10)))
		require.NoError(t, st.Start())

		err := st.AddLine(uuid.New(), decimal.NewFromInt(5))

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestStockTaking_Start(t *testing.T) {
	t.Run("opens counting window", func(t *testing.T) {
		st := createTestStockTaking(t)
		require.NoError(t, st.AddLine(uuid.New(), decimal.NewFromInt(10)))

		err := st.Start()

		require.NoError(t, err)
		assert.Equal(t, StockTakingStatusInProgress, st.Status)
		require.NotNil(t, st.StartedAt)
	})

	t.Run("fails with no lines", func(t *testing.T) {
		st := createTestStockTaking(t)

		err := st.Start()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no lines")
	})

	t.Run("fails when already in progress", func(t *testing.T) {
		st := createTestStockTaking(t)
		require.NoError(t, st.AddLine(uuid.New(), decimal.NewFromInt(10)))
		require.NoError(t, st.Start())

		err := st.Start()

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestStockTaking_MarkCompleted(t *testing.T) {
	setup := func(t *testing.T) (*StockTaking, uuid.UUID) {
		st := createTestStockTaking(t)
		itemID := uuid.New()
		require.NoError(t, st.AddLine(itemID, decimal.NewFromInt(50)))
		require.NoError(t, st.Start())
		return st, itemID
	}

	t.Run("records counts and deltas", func(t *testing.T) {
		st, itemID := setup(t)

		err := st.MarkCompleted(map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(47)})

		require.NoError(t, err)
		assert.Equal(t, StockTakingStatusCompleted, st.Status)
		assert.Equal(t, "-3", st.Lines[0].Delta().String())

		diffs := st.DifferenceLines()
		require.Len(t, diffs, 1)
		assert.Equal(t, itemID, diffs[0].ItemID)
	})

	t.Run("missing entry means count matched snapshot", func(t *testing.T) {
		st, _ := setup(t)

		err := st.MarkCompleted(nil)

		require.NoError(t, err)
		assert.True(t, st.Lines[0].Delta().IsZero())
		assert.Empty(t, st.DifferenceLines())
	})

	t.Run("rejects negative count", func(t *testing.T) {
		st, itemID := setup(t)

		err := st.MarkCompleted(map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(-1)})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
		assert.Equal(t, StockTakingStatusInProgress, st.Status)
	})

	t.Run("fails when not in progress", func(t *testing.T) {
		st := createTestStockTaking(t)
		require.NoError(t, st.AddLine(uuid.New(), decimal.NewFromInt(10)))

		err := st.MarkCompleted(nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestStockTaking_Cancel(t *testing.T) {
	t.Run("cancels draft", func(t *testing.T) {
		st := createTestStockTaking(t)

		err := st.Cancel()

		require.NoError(t, err)
		assert.Equal(t, StockTakingStatusCancelled, st.Status)
	})

	t.Run("cancels in-progress document", func(t *testing.T) {
		st := createTestStockTaking(t)
		require.NoError(t, st.AddLine(uuid.New(), decimal.NewFromInt(10)))
		require.NoError(t, st.Start())

		err := st.Cancel()

		require.NoError(t, err)
		assert.Equal(t, StockTakingStatusCancelled, st.Status)
	})

	t.Run("re-cancel is a no-op", func(t *testing.T) {
		st := createTestStockTaking(t)
		require.NoError(t, st.Cancel())
		versionBefore := st.GetVersion()

		err := st.Cancel()

		require.NoError(t, err)
		assert.Equal(t, versionBefore, st.GetVersion())
	})

	t.Run("fails after completion", func(t *testing.T) {
		st := createTestStockTaking(t)
		require.NoError(t, st.AddLine(uuid.New(), decimal.NewFromInt(10)))
		require.NoError(t, st.Start())
		require.NoError(t, st.MarkCompleted(nil))

		err := st.Cancel()

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}
