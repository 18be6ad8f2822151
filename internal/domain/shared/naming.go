package shared

import (
	"context"
	"fmt"
	"time"
)

// NamingSeries allocates sequential document names per prefix and year,
// e.g. prefix "NK" yields NK-2025-00001, NK-2025-00002, ...
type NamingSeries struct {
	BaseEntity
	Prefix  string `gorm:"size:20;not null;uniqueIndex:idx_naming_series_prefix_year,priority:1"`
	Year    int    `gorm:"not null;uniqueIndex:idx_naming_series_prefix_year,priority:2"`
	Current int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (NamingSeries) TableName() string {
	return "naming_series"
}

// FormatSeriesName renders a document name for a prefix, year and sequence
func FormatSeriesName(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}

// NamingSeriesRepository allocates the next name in a series atomically
type NamingSeriesRepository interface {
	NextName(ctx context.Context, prefix string, date time.Time) (string, error)
}
