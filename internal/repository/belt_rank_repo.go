package repository

import (
	"context"

	"gorm.io/gorm"

	"dojoadmin/internal/domain"
)

type BeltRankRepository struct {
	db *gorm.DB
}

func NewBeltRankRepository(db *gorm.DB) *BeltRankRepository {
	return &BeltRankRepository{db: db}
}

func (r *BeltRankRepository) DB() *gorm.DB { return r.db }

func (r *BeltRankRepository) Create(ctx context.Context, rank *domain.BeltRank) error {
	return r.db.WithContext(ctx).Create(rank).Error
}

func (r *BeltRankRepository) GetByID(ctx context.Context, id int64) (*domain.BeltRank, error) {
	var rank domain.BeltRank
	if err := r.db.WithContext(ctx).First(&rank, id).Error; err != nil {
		return nil, err
	}
	return &rank, nil
}

func (r *BeltRankRepository) GetByName(ctx context.Context, name string) (*domain.BeltRank, error) {
	var rank domain.BeltRank
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&rank).Error; err != nil {
		return nil, err
	}
	return &rank, nil
}

func (r *BeltRankRepository) List(ctx context.Context, activeOnly bool) ([]domain.BeltRank, error) {
	q := r.db.WithContext(ctx).Model(&domain.BeltRank{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var ranks []domain.BeltRank
	err := q.Order("position ASC").Find(&ranks).Error
	return ranks, err
}

func (r *BeltRankRepository) Update(ctx context.Context, rank *domain.BeltRank) error {
	return r.db.WithContext(ctx).Save(rank).Error
}

// Delete removes the rank and clears the weak reference on every profile
// still pointing at it, in one transaction.
func (r *BeltRankRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rank domain.BeltRank
		if err := tx.First(&rank, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Profile{}).
			Where("belt_rank = ?", rank.Name).
			Update("belt_rank", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.BeltRank{}, id).Error
	})
}
