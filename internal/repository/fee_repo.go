package repository

import (
	"context"

	"gorm.io/gorm"

	"dojoadmin/internal/domain"
)

type FeeRepository struct {
	db *gorm.DB
}

func NewFeeRepository(db *gorm.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

func (r *FeeRepository) DB() *gorm.DB { return r.db }

// BulkCreate inserts all records in one statement; either every record
// lands or none do.
func (r *FeeRepository) BulkCreate(ctx context.Context, fees []domain.MonthlyFee) error {
	if len(fees) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&fees).Error
}

func (r *FeeRepository) GetByID(ctx context.Context, id int64) (*domain.MonthlyFee, error) {
	var fee domain.MonthlyFee
	if err := r.db.WithContext(ctx).First(&fee, id).Error; err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *FeeRepository) Update(ctx context.Context, fee *domain.MonthlyFee) error {
	return r.db.WithContext(ctx).Save(fee).Error
}

func (r *FeeRepository) ListByPeriod(ctx context.Context, month, year int) ([]domain.MonthlyFee, error) {
	var fees []domain.MonthlyFee
	err := r.db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		Order("profile_id ASC").
		Find(&fees).Error
	return fees, err
}

func (r *FeeRepository) ListByProfile(ctx context.Context, profileID int64) ([]domain.MonthlyFee, error) {
	var fees []domain.MonthlyFee
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("year DESC, month DESC").
		Find(&fees).Error
	return fees, err
}
