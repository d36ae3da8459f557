package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dojoadmin/internal/domain"
)

type jwtService interface {
	GenerateToken(profileID int64, email, role string) (string, error)
}

// Service contains the session half of the member lifecycle: registration,
// the approval-gated login, and the profile lookup behind every request.
type Service struct {
	profiles      ProfileRepository
	jwt           jwtService
	lookupTimeout time.Duration
}

type LoginResult struct {
	Profile     *domain.Profile
	AccessToken string
}

func NewService(profiles ProfileRepository, jwt jwtService, lookupTimeout time.Duration) *Service {
	if lookupTimeout <= 0 {
		lookupTimeout = 3 * time.Second
	}
	return &Service{
		profiles:      profiles,
		jwt:           jwt,
		lookupTimeout: lookupTimeout,
	}
}

// Register creates the profile in one insert: credential fields and the
// optional biographical fields land together, so there is no enrichment
// write that can fail separately. The account starts unapproved and gets
// no token until a master lets it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.Profile, error) {
	if err := s.validateEmailUnique(ctx, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Phone:        req.Phone,
		BirthDate:    req.BirthDate,
		Address:      req.Address,
		Emergency:    req.Emergency,
		Role:         domain.RoleStudent,
		Approved:     false,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	profile.PasswordHash = ""
	return profile, nil
}

// Login validates credentials and then applies the approval gate. An
// unapproved account — student or master — is rejected before any token
// is minted, so a refused login leaves no session behind.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !profile.Approved {
		return nil, ErrPendingApproval
	}

	accessToken, err := s.jwt.GenerateToken(profile.ID, profile.Email, string(profile.Role))
	if err != nil {
		return nil, err
	}

	profile.PasswordHash = ""
	return &LoginResult{Profile: profile, AccessToken: accessToken}, nil
}

// EstablishSession resolves the authenticated identity to its profile with
// a bounded lookup. A missing row, a backend error, or a lookup slower than
// the timeout all degrade the same way: a minimal derived profile with no
// privileges. Read-only — the fallback path never writes.
func (s *Service) EstablishSession(ctx context.Context, profileID int64, email string) *domain.Profile {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	type lookup struct {
		profile *domain.Profile
		err     error
	}
	ch := make(chan lookup, 1)
	go func() {
		p, err := s.profiles.GetByID(lookupCtx, profileID)
		ch <- lookup{p, err}
	}()

	select {
	case res := <-ch:
		if res.err == nil {
			res.profile.PasswordHash = ""
			return res.profile
		}
		if !errors.Is(res.err, gorm.ErrRecordNotFound) {
			log.Printf("session_fallback profile_id=%d reason=lookup_error err=%v", profileID, res.err)
		}
	case <-lookupCtx.Done():
		log.Printf("session_fallback profile_id=%d reason=lookup_timeout timeout=%s", profileID, s.lookupTimeout)
	}

	return &domain.Profile{
		ID:       profileID,
		Email:    email,
		Role:     domain.RoleStudent,
		Approved: false,
	}
}

func (s *Service) GetCurrentProfile(ctx context.Context, profileID int64) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	profile.PasswordHash = ""
	return profile, nil
}

// UpdateProfile lets a member edit their own contact and biographical
// fields. Role, approval, belt rank and fee flags are master-administered
// and not reachable from here.
func (s *Service) UpdateProfile(ctx context.Context, profileID int64, req UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	// Name is the one field that cannot be cleared; the rest accept an
	// explicit empty string as "remove".
	if req.Name != nil && *req.Name != "" {
		profile.Name = *req.Name
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		profile.BirthDate = *req.BirthDate
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.Emergency != nil {
		profile.Emergency = *req.Emergency
	}
	if req.Notes != nil {
		profile.Notes = *req.Notes
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	profile.PasswordHash = ""
	return profile, nil
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.profiles.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
