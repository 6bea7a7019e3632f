package catalog

import (
	"testing"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeVersion_ScaleLines(t *testing.T) {
	flour := uuid.New()
	sugar := uuid.New()
	version := &RecipeVersion{
		BaseEntity: shared.NewBaseEntity(),
		RecipeID:   uuid.New(),
		ProductID:  uuid.New(),
		Version:    3,
		Name:       "Sponge cake v3",
		Lines: []RecipeLine{
			{LineNumber: 1, IngredientID: flour, QuantityPerUnit: decimal.NewFromFloat(0.25), Unit: "kg"},
			{LineNumber: 2, IngredientID: sugar, QuantityPerUnit: decimal.NewFromFloat(0.1), Unit: "kg"},
		},
	}

	t.Run("scales per-unit quantities by output", func(t *testing.T) {
		scaled, err := version.ScaleLines(decimal.NewFromInt(40))

		require.NoError(t, err)
		require.Len(t, scaled, 2)
		assert.Equal(t, flour, scaled[0].IngredientID)
		assert.Equal(t, "10", scaled[0].Quantity.String())
		assert.Equal(t, "4", scaled[1].Quantity.String())
		assert.Equal(t, "kg", scaled[1].Unit)
	})

	t.Run("rejects non-positive output quantity", func(t *testing.T) {
		scaled, err := version.ScaleLines(decimal.Zero)

		require.Error(t, err)
		assert.Nil(t, scaled)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("rejects recipe with no lines", func(t *testing.T) {
		empty := &RecipeVersion{BaseEntity: shared.NewBaseEntity(), Version: 1}

		scaled, err := empty.ScaleLines(decimal.NewFromInt(10))

		require.Error(t, err)
		assert.Nil(t, scaled)
		assert.Contains(t, err.Error(), "no ingredient lines")
	})
}
