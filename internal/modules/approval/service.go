package approval

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"dojoadmin/internal/domain"
)

// Service performs the privileged profile transitions. Every operation
// re-loads the requester from the store and checks IsPrivileged there:
// the role claim in the token is never trusted for these writes.
type Service struct {
	profiles ProfileRepository
	ranks    BeltRankReader
}

func NewService(profiles ProfileRepository, ranks BeltRankReader) *Service {
	return &Service{profiles: profiles, ranks: ranks}
}

func (s *Service) ListPending(ctx context.Context, requesterID int64, page, limit int) ([]domain.Profile, int, error) {
	if err := s.requirePrivileged(ctx, requesterID); err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	profiles, total, err := s.profiles.ListPendingStudents(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range profiles {
		profiles[i].PasswordHash = ""
	}
	return profiles, int(total), nil
}

// Approve grants access: approved flag, timestamp and approver land in one
// update so no mixed state can be observed. The revision check rejects a
// master racing another master on the same target.
func (s *Service) Approve(ctx context.Context, requesterID, targetID int64) error {
	if err := s.requirePrivileged(ctx, requesterID); err != nil {
		return err
	}

	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Approved {
		return ErrNotPending
	}

	now := time.Now().UTC()
	ok, err := s.profiles.UpdateWithRevision(ctx, target.ID, target.Revision, map[string]any{
		"approved":    true,
		"approved_at": now,
		"approved_by": requesterID,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

// RevokeApproval is the inverse transition; the three approval fields are
// cleared together, never partially.
func (s *Service) RevokeApproval(ctx context.Context, requesterID, targetID int64) error {
	if err := s.requirePrivileged(ctx, requesterID); err != nil {
		return err
	}

	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if !target.Approved {
		return ErrNotApproved
	}

	ok, err := s.profiles.UpdateWithRevision(ctx, target.ID, target.Revision, map[string]any{
		"approved":    false,
		"approved_at": nil,
		"approved_by": nil,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

// Promote escalates a student to master. There is no demotion path, so the
// UI must treat this as a destructive, confirmed action.
func (s *Service) Promote(ctx context.Context, requesterID, targetID int64) error {
	if err := s.requirePrivileged(ctx, requesterID); err != nil {
		return err
	}

	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleMaster {
		return ErrAlreadyMaster
	}

	ok, err := s.profiles.UpdateWithRevision(ctx, target.ID, target.Revision, map[string]any{
		"role": domain.RoleMaster,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

// AssignBeltRank points the target at a catalog entry by name.
func (s *Service) AssignBeltRank(ctx context.Context, requesterID, targetID int64, rankName string) error {
	if err := s.requirePrivileged(ctx, requesterID); err != nil {
		return err
	}

	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}

	rank, err := s.ranks.GetByName(ctx, rankName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	ok, err := s.profiles.UpdateWithRevision(ctx, target.ID, target.Revision, map[string]any{
		"belt_rank": rank.Name,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

// SetFeeProgram configures how the target is billed. The fee amount is only
// meaningful for private students; leaving the program zeroes it.
func (s *Service) SetFeeProgram(ctx context.Context, requesterID, targetID int64, isPrivate, isSocial bool, monthlyFee decimal.Decimal) error {
	if err := s.requirePrivileged(ctx, requesterID); err != nil {
		return err
	}

	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}

	fee := decimal.Zero
	if isPrivate {
		if monthlyFee.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidFee
		}
		fee = monthlyFee.Round(2)
	}

	ok, err := s.profiles.UpdateWithRevision(ctx, target.ID, target.Revision, map[string]any{
		"is_private_student": isPrivate,
		"is_social_program":  isSocial,
		"monthly_fee":        fee,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

func (s *Service) requirePrivileged(ctx context.Context, requesterID int64) error {
	requester, err := s.profiles.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}
	if !requester.IsPrivileged() {
		return ErrForbidden
	}
	return nil
}

func (s *Service) loadTarget(ctx context.Context, targetID int64) (*domain.Profile, error) {
	target, err := s.profiles.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return target, nil
}
