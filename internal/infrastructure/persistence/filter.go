package persistence

import (
	"fmt"
	"strings"

	"github.com/foodworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies pagination and ordering to a query. OrderBy is checked
// against the caller's column whitelist so a filter can never inject SQL.
func applyFilter(query *gorm.DB, filter shared.Filter, orderable map[string]bool) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" && orderable[filter.OrderBy] {
		dir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			dir = "DESC"
		}
		return query.Order(fmt.Sprintf("%s %s", filter.OrderBy, dir))
	}

	return query.Order("created_at DESC")
}
