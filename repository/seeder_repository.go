package repository

import (
	"context"

	"storefront/models"

	"gorm.io/gorm"
)

// SeederRepository records which data seeders have run.
type SeederRepository interface {
	HasRun(ctx context.Context, name string) (bool, error)
	// RunOnce executes fn and records name in one transaction.
	RunOnce(ctx context.Context, name string, fn func(tx *gorm.DB) error) error
}

type GormSeederRepository struct {
	db *gorm.DB
}

func NewGormSeederRepository(db *gorm.DB) SeederRepository {
	return &GormSeederRepository{db: db}
}

func (r *GormSeederRepository) HasRun(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Seeder{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *GormSeederRepository) RunOnce(ctx context.Context, name string, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return err
		}
		return tx.Create(&models.Seeder{Name: name}).Error
	})
}
