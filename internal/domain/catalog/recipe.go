package catalog

import (
	"context"

	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeLine is one ingredient requirement of a recipe version, expressed per
// unit of output.
type RecipeLine struct {
	shared.BaseEntity
	RecipeVersionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber      int             `gorm:"not null"`
	IngredientID    uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityPerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit            string          `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (RecipeLine) TableName() string {
	return "recipe_lines"
}

// RecipeVersion is an immutable snapshot of a recipe. Editing a recipe
// produces a new version; production batches reference the version they were
// planned against and are never affected by later edits.
type RecipeVersion struct {
	shared.BaseEntity
	RecipeID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Version   int          `gorm:"not null"`
	Name      string       `gorm:"type:varchar(255);not null"`
	Lines     []RecipeLine `gorm:"foreignKey:RecipeVersionID;references:ID"`
}

// TableName returns the table name for GORM
func (RecipeVersion) TableName() string {
	return "recipe_versions"
}

// ScaleLines returns the ingredient quantities required to produce the given
// output quantity, scaled from the per-unit amounts.
func (v *RecipeVersion) ScaleLines(outputQty decimal.Decimal) ([]ScaledLine, error) {
	if outputQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if len(v.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_RECIPE", "Recipe version has no ingredient lines")
	}

	scaled := make([]ScaledLine, 0, len(v.Lines))
	for _, line := range v.Lines {
		scaled = append(scaled, ScaledLine{
			IngredientID: line.IngredientID,
			Quantity:     line.QuantityPerUnit.Mul(outputQty),
			Unit:         line.Unit,
		})
	}
	return scaled, nil
}

// ScaledLine is an ingredient requirement scaled to a planned output quantity
type ScaledLine struct {
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
	Unit         string
}

// RecipeCatalog provides read-only access to recipe versions. Maintenance of
// recipes lives elsewhere; this side only ever reads them.
type RecipeCatalog interface {
	// FindVersionByID finds a recipe version with its ingredient lines
	FindVersionByID(ctx context.Context, versionID uuid.UUID) (*RecipeVersion, error)
}
