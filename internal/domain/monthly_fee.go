package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FeeStatus string

const (
	FeePending   FeeStatus = "pending"
	FeePaid      FeeStatus = "paid"
	FeeOverdue   FeeStatus = "overdue"
	FeeCancelled FeeStatus = "cancelled"
)

// MonthlyFee is one billing obligation for one student and one (month, year)
// period. Amount is copied from the profile at generation time, not a live
// reference. The composite unique index is what makes generation safe to
// retry and safe against two masters generating the same period at once.
type MonthlyFee struct {
	ID        int64           `gorm:"column:id;primaryKey" json:"id"`
	ProfileID int64           `gorm:"column:profile_id;uniqueIndex:idx_fee_period" json:"profile_id"`
	Month     int             `gorm:"column:month;uniqueIndex:idx_fee_period" json:"month"`
	Year      int             `gorm:"column:year;uniqueIndex:idx_fee_period" json:"year"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(10,2)" json:"amount"`
	DueDate   time.Time       `gorm:"column:due_date" json:"due_date"`
	Status    FeeStatus       `gorm:"column:status" json:"status"`

	PaidAt        *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	PaymentMethod *string    `gorm:"column:payment_method" json:"payment_method,omitempty"`
	ReceiptNumber *string    `gorm:"column:receipt_number" json:"receipt_number,omitempty"`
	Notes         string     `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (MonthlyFee) TableName() string { return "monthly_fees" }

// DueDateFor returns the canonical due date for a billing period, the 5th
// calendar day of the reference month.
func DueDateFor(month, year int) time.Time {
	return time.Date(year, time.Month(month), 5, 0, 0, 0, 0, time.UTC)
}
