package stock

import (
	"testing"
	"time"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMovement(t *testing.T) {
	branchID := uuid.New()
	itemID := uuid.New()
	actorID := uuid.New()

	t.Run("creates movement successfully", func(t *testing.T) {
		movement, err := NewMovement(
			branchID, itemID, ItemKindIngredient,
			MovementTypeReceipt,
			decimal.NewFromInt(10),
			decimal.NewFromFloat(2.50), decimal.NewFromInt(30000),
			decimal.NewFromInt(10),
			SourceTypeSupplierReceipt, "SR-20260901-0001",
			actorID,
		)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, movement.ID)
		assert.Equal(t, branchID, movement.BranchID)
		assert.Equal(t, MovementTypeReceipt, movement.MovementType)
		assert.Equal(t, "10", movement.Quantity.String())
		assert.Equal(t, "SR-20260901-0001", movement.SourceID)
		assert.False(t, movement.MovementDate.IsZero())
	})

	t.Run("fails with negative quantity", func(t *testing.T) {
		movement, err := NewMovement(
			branchID, itemID, ItemKindIngredient,
			MovementTypeReceipt,
			decimal.NewFromInt(-1),
			decimal.Zero, decimal.Zero,
			decimal.Zero,
			SourceTypeSupplierReceipt, "SR-20260901-0001",
			actorID,
		)

		require.Error(t, err)
		assert.Nil(t, movement)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("fails with empty source ID", func(t *testing.T) {
		movement, err := NewMovement(
			branchID, itemID, ItemKindIngredient,
			MovementTypeReceipt,
			decimal.NewFromInt(1),
			decimal.Zero, decimal.Zero,
			decimal.NewFromInt(1),
			SourceTypeSupplierReceipt, "",
			actorID,
		)

		require.Error(t, err)
		assert.Nil(t, movement)
		assert.Contains(t, err.Error(), "Source ID")
	})

	t.Run("fails with nil actor", func(t *testing.T) {
		movement, err := NewMovement(
			branchID, itemID, ItemKindIngredient,
			MovementTypeReceipt,
			decimal.NewFromInt(1),
			decimal.Zero, decimal.Zero,
			decimal.NewFromInt(1),
			SourceTypeSupplierReceipt, "SR-20260901-0001",
			uuid.Nil,
		)

		require.Error(t, err)
		assert.Nil(t, movement)
		assert.Contains(t, err.Error(), "Actor ID")
	})

	t.Run("fails with invalid movement type", func(t *testing.T) {
		movement, err := NewMovement(
			branchID, itemID, ItemKindIngredient,
			MovementType("TELEPORT"),
			decimal.NewFromInt(1),
			decimal.Zero, decimal.Zero,
			decimal.NewFromInt(1),
			SourceTypeSupplierReceipt, "SR-20260901-0001",
			actorID,
		)

		require.Error(t, err)
		assert.Nil(t, movement)
	})
}

func TestMovement_WithSetters(t *testing.T) {
	movement, err := NewMovement(
		uuid.New(), uuid.New(), ItemKindProduct,
		MovementTypeSale,
		decimal.NewFromInt(2),
		decimal.NewFromFloat(5.00), decimal.NewFromInt(60000),
		decimal.NewFromInt(8),
		SourceTypeSale, "SO-20260901-0001",
		uuid.New(),
	)
	require.NoError(t, err)

	date := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	movement.WithReason("counter sale").WithMovementDate(date)

	assert.Equal(t, "counter sale", movement.Reason)
	assert.Equal(t, date, movement.MovementDate)
}

func TestMovementType_Direction(t *testing.T) {
	tests := []struct {
		movementType MovementType
		inbound      bool
	}{
		{MovementTypeReceipt, true},
		{MovementTypeProductionIn, true},
		{MovementTypeTransferIn, true},
		{MovementTypeReturn, true},
		{MovementTypeAdjustmentIncrease, true},
		{MovementTypeWriteOff, false},
		{MovementTypeProductionConsumption, false},
		{MovementTypeTransferOut, false},
		{MovementTypeSale, false},
		{MovementTypeAdjustmentDecrease, false},
	}

	for _, tt := range tests {
		t.Run(tt.movementType.String(), func(t *testing.T) {
			assert.Equal(t, tt.inbound, tt.movementType.IsInbound())
			assert.Equal(t, !tt.inbound, tt.movementType.IsOutbound())
		})
	}

	t.Run("invalid type is neither direction", func(t *testing.T) {
		bad := MovementType("TELEPORT")
		assert.False(t, bad.IsInbound())
		assert.False(t, bad.IsOutbound())
	})
}

func TestMovement_SignedDelta(t *testing.T) {
	base := func(movementType MovementType, sourceType SourceType) *Movement {
		movement, err := NewMovement(
			uuid.New(), uuid.New(), ItemKindIngredient,
			movementType,
			decimal.NewFromInt(7),
			decimal.NewFromFloat(1.50), decimal.NewFromInt(18000),
			decimal.NewFromInt(7),
			sourceType, "DOC-1",
			uuid.New(),
		)
		require.NoError(t, err)
		return movement
	}

	t.Run("inbound is positive", func(t *testing.T) {
		movement := base(MovementTypeReceipt, SourceTypeSupplierReceipt)
		assert.Equal(t, "7", movement.SignedDelta().String())
	})

	t.Run("outbound is negative", func(t *testing.T) {
		movement := base(MovementTypeWriteOff, SourceTypeManualAdjustment)
		assert.Equal(t, "-7", movement.SignedDelta().String())
	})
}

func TestMovement_TotalCost(t *testing.T) {
	movement, err := NewMovement(
		uuid.New(), uuid.New(), ItemKindIngredient,
		MovementTypeReceipt,
		decimal.NewFromInt(4),
		decimal.NewFromFloat(2.50), decimal.NewFromInt(30000),
		decimal.NewFromInt(4),
		SourceTypeSupplierReceipt, "SR-20260901-0002",
		uuid.New(),
	)
	require.NoError(t, err)

	assert.Equal(t, "10", movement.TotalCostForeign().String())
	assert.Equal(t, "120000", movement.TotalCostBase().String())
}
