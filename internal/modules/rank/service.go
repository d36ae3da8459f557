package rank

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dojoadmin/internal/domain"
	"dojoadmin/internal/repository"
)

// Service manages the belt rank catalog. Ranks are a soft catalog: profiles
// reference them by name, and deleting a rank clears those references
// instead of leaving orphaned strings.
type Service struct {
	ranks *repository.BeltRankRepository
}

func NewService(ranks *repository.BeltRankRepository) *Service {
	return &Service{ranks: ranks}
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]domain.BeltRank, error) {
	return s.ranks.List(ctx, activeOnly)
}

func (s *Service) Create(ctx context.Context, req CreateRankRequest) (*domain.BeltRank, error) {
	if _, err := s.ranks.GetByName(ctx, req.Name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	r := &domain.BeltRank{
		Name:        req.Name,
		Color:       req.Color,
		Position:    req.Position,
		Active:      true,
		Description: req.Description,
	}
	if err := s.ranks.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRankRequest) (*domain.BeltRank, error) {
	r, err := s.ranks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Color != nil {
		r.Color = *req.Color
	}
	if req.Position != nil {
		r.Position = *req.Position
	}
	if req.Active != nil {
		r.Active = *req.Active
	}
	if req.Description != nil {
		r.Description = *req.Description
	}

	if err := s.ranks.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.ranks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
