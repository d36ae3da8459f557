package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"dojoadmin/internal/domain"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) DB() *gorm.DB { return r.db }

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// UpdateWithRevision applies updates only if the row still carries the
// expected revision, bumping it on success. Returns false when another
// writer got there first.
func (r *ProfileRepository) UpdateWithRevision(ctx context.Context, id int64, revision int, updates map[string]any) (bool, error) {
	set := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		set[k] = v
	}
	set["revision"] = revision + 1

	tx := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("id = ? AND revision = ?", id, revision).
		Updates(set)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ListPendingStudents returns unapproved student profiles, oldest first so
// the review queue is worked in registration order.
func (r *ProfileRepository) ListPendingStudents(ctx context.Context, offset, limit int) ([]domain.Profile, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("role = ? AND approved = ?", domain.RoleStudent, false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []domain.Profile
	if err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// ListEligibleForBilling returns approved private students, the set the
// billing generator materializes records for.
func (r *ProfileRepository) ListEligibleForBilling(ctx context.Context) ([]domain.Profile, error) {
	var profiles []domain.Profile
	err := r.db.WithContext(ctx).
		Where("is_private_student = ? AND approved = ?", true, true).
		Find(&profiles).Error
	return profiles, err
}
