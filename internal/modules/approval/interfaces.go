package approval

import (
	"context"

	"dojoadmin/internal/domain"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	UpdateWithRevision(ctx context.Context, id int64, revision int, updates map[string]any) (bool, error)
	ListPendingStudents(ctx context.Context, offset, limit int) ([]domain.Profile, int64, error)
}

type BeltRankReader interface {
	GetByName(ctx context.Context, name string) (*domain.BeltRank, error)
}
