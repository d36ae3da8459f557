package approval

import "errors"

var (
	ErrForbidden     = errors.New("requester is not a privileged master")
	ErrNotFound      = errors.New("profile not found")
	ErrConflict      = errors.New("profile was modified concurrently")
	ErrNotPending    = errors.New("profile is not pending approval")
	ErrNotApproved   = errors.New("profile is not approved")
	ErrAlreadyMaster = errors.New("profile already has the master role")
	ErrInvalidFee    = errors.New("monthly fee must be positive for private students")
)
