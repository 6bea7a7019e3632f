package persistence

import (
	"context"
	"errors"

	"github.com/foodworks/backend/internal/domain/catalog"
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecipeCatalog implements RecipeCatalog using GORM. Recipe versions are
// immutable snapshots, so this side only ever reads them.
type GormRecipeCatalog struct {
	db *gorm.DB
}

// NewGormRecipeCatalog creates a new GormRecipeCatalog
func NewGormRecipeCatalog(db *gorm.DB) *GormRecipeCatalog {
	return &GormRecipeCatalog{db: db}
}

// FindVersionByID finds a recipe version with its ingredient lines
func (r *GormRecipeCatalog) FindVersionByID(ctx context.Context, versionID uuid.UUID) (*catalog.RecipeVersion, error) {
	var version catalog.RecipeVersion
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		First(&version, "id = ?", versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

var _ catalog.RecipeCatalog = (*GormRecipeCatalog)(nil)
