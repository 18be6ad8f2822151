package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/xuanhoa/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// SeedStage records one completed batch import stage so re-running the
// seeder skips work that already succeeded.
type SeedStage struct {
	shared.BaseEntity
	Stage       string    `gorm:"size:100;uniqueIndex;not null"`
	RecordCount int       `gorm:"not null;default:0"`
	CompletedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SeedStage) TableName() string {
	return "seed_stages"
}

// SeedStageRepository tracks which import stages have completed
type SeedStageRepository interface {
	IsDone(ctx context.Context, stage string) (bool, error)
	MarkDone(ctx context.Context, stage string, recordCount int) error
}

// GormSeedStageRepository implements SeedStageRepository using GORM
type GormSeedStageRepository struct {
	db *gorm.DB
}

// NewGormSeedStageRepository creates a new GormSeedStageRepository
func NewGormSeedStageRepository(db *gorm.DB) *GormSeedStageRepository {
	return &GormSeedStageRepository{db: db}
}

// IsDone reports whether a stage has already completed
func (r *GormSeedStageRepository) IsDone(ctx context.Context, stage string) (bool, error) {
	var record SeedStage
	if err := conn(ctx, r.db).First(&record, "stage = ?", stage).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MarkDone records a completed stage
func (r *GormSeedStageRepository) MarkDone(ctx context.Context, stage string, recordCount int) error {
	return conn(ctx, r.db).Create(&SeedStage{
		BaseEntity:  shared.NewBaseEntity(),
		Stage:       stage,
		RecordCount: recordCount,
		CompletedAt: time.Now(),
	}).Error
}

// Ensure interface is implemented
var _ SeedStageRepository = (*GormSeedStageRepository)(nil)
