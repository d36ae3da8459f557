package billing

import (
	"context"

	"gorm.io/gorm"

	"dojoadmin/internal/domain"
)

type ProfileReader interface {
	ListEligibleForBilling(ctx context.Context) ([]domain.Profile, error)
}

type FeeRepository interface {
	BulkCreate(ctx context.Context, fees []domain.MonthlyFee) error
	GetByID(ctx context.Context, id int64) (*domain.MonthlyFee, error)
	Update(ctx context.Context, fee *domain.MonthlyFee) error
	ListByPeriod(ctx context.Context, month, year int) ([]domain.MonthlyFee, error)
	ListByProfile(ctx context.Context, profileID int64) ([]domain.MonthlyFee, error)
	DB() *gorm.DB
}
