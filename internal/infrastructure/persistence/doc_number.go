package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// nextDocNumber generates the next sequential document number for today in
// the form <prefix>-YYYYMMDD-XXXX, scanning the highest existing number with
// the same date prefix.
func nextDocNumber(ctx context.Context, db *gorm.DB, model interface{}, column, prefix string) (string, error) {
	today := time.Now().Format("20060102")
	datePrefix := fmt.Sprintf("%s-%s-", prefix, today)

	var maxNumber string
	err := db.WithContext(ctx).Model(model).
		Select(column).
		Where(column+" LIKE ?", datePrefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &maxNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var seq int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if _, err := fmt.Sscanf(parts[len(parts)-1], "%04d", &seq); err != nil {
			seq = 0
		}
	}
	seq++

	return fmt.Sprintf("%s%04d", datePrefix, seq), nil
}
