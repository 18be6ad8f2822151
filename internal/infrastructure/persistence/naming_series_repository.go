package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/xuanhoa/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNamingSeriesRepository allocates sequential document names. Each
// allocation runs in its own transaction with the series row locked so
// concurrent submitters never receive the same name.
type GormNamingSeriesRepository struct {
	db *gorm.DB
}

// NewGormNamingSeriesRepository creates a new GormNamingSeriesRepository
func NewGormNamingSeriesRepository(db *gorm.DB) *GormNamingSeriesRepository {
	return &GormNamingSeriesRepository{db: db}
}

// NextName returns the next name in the series for the prefix and the
// year of the given date, e.g. NK-2025-00042.
func (r *GormNamingSeriesRepository) NextName(ctx context.Context, prefix string, date time.Time) (string, error) {
	year := date.Year()
	var name string

	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var series shared.NamingSeries
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&series, "prefix = ? AND year = ?", prefix, year).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			series = shared.NamingSeries{
				BaseEntity: shared.NewBaseEntity(),
				Prefix:     prefix,
				Year:       year,
			}
			if err := tx.Create(&series).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		series.Current++
		series.Touch()
		if err := tx.Save(&series).Error; err != nil {
			return err
		}
		name = shared.FormatSeriesName(prefix, year, series.Current)
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// Ensure interface is implemented
var _ shared.NamingSeriesRepository = (*GormNamingSeriesRepository)(nil)
