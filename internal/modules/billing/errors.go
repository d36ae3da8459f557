package billing

import "errors"

var (
	ErrInvalidPeriod      = errors.New("invalid billing period")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrNotFound           = errors.New("fee record not found")
	ErrPaymentIncomplete  = errors.New("payment date and payment method are required")
	ErrAlreadyPaid        = errors.New("fee record is already paid")
	ErrCancelled          = errors.New("fee record is cancelled")
	ErrPaidNotCancellable = errors.New("a paid fee record cannot be cancelled")
)
