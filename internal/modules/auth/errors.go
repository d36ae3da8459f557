package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrPendingApproval is a business-rule rejection, not a credential
	// failure: the password was right, the account just is not approved yet.
	ErrPendingApproval = errors.New("account pending approval")
)
