package repository

import (
	"context"
	"errors"

	"ipo-hype-tracker/internal/entity"

	"gorm.io/gorm"
)

// DigestRunRepository persists the run history.
type DigestRunRepository interface {
	Create(ctx context.Context, run *entity.DigestRun) error
	Update(ctx context.Context, run *entity.DigestRun) error
	FindByRunID(ctx context.Context, runID string) (*entity.DigestRun, error)
	FindRecent(ctx context.Context, limit int) ([]entity.DigestRun, error)
}

type digestRunRepository struct {
	db *gorm.DB
}

// NewDigestRunRepository creates a new GORM-based digest run repository.
func NewDigestRunRepository(db *gorm.DB) DigestRunRepository {
	return &digestRunRepository{db: db}
}

// Create creates a new digest run record.
func (r *digestRunRepository) Create(ctx context.Context, run *entity.DigestRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update saves every column of the run, zero values included.
func (r *digestRunRepository) Update(ctx context.Context, run *entity.DigestRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindByRunID returns nil, nil when no run matches.
func (r *digestRunRepository) FindByRunID(ctx context.Context, runID string) (*entity.DigestRun, error) {
	var run entity.DigestRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// FindRecent returns the latest runs, newest first.
func (r *digestRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.DigestRun, error) {
	var runs []entity.DigestRun
	if err := r.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
