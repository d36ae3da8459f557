package billing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"dojoadmin/internal/domain"
)

// Outcome classifies a generation run. Only "generated" means rows were
// written; the other two are successful no-ops, not errors.
type Outcome string

const (
	OutcomeGenerated          Outcome = "generated"
	OutcomeNoEligibleStudents Outcome = "no_eligible_students"
	OutcomeAlreadyGenerated   Outcome = "already_generated"
)

type GenerationResult struct {
	Outcome Outcome `json:"outcome"`
	Created int     `json:"created"`
}

type RateChangeResult struct {
	NewAmount       decimal.Decimal `json:"new_amount"`
	ProfilesUpdated int             `json:"profiles_updated"`
	PendingUpdated  int             `json:"pending_updated"`
}

// Service is the billing cycle generator: it materializes one fee record
// per eligible student per period and owns the record's status transitions.
type Service struct {
	fees     FeeRepository
	profiles ProfileReader
}

func NewService(fees FeeRepository, profiles ProfileReader) *Service {
	return &Service{fees: fees, profiles: profiles}
}

// GenerateForPeriod creates the missing fee records for (month, year).
// The run is idempotent: students already billed for the period are skipped,
// and the unique index on (profile_id, month, year) turns the
// check-then-insert race between two masters into an already_generated
// outcome instead of duplicate rows. The bulk insert is all-or-nothing, so
// a failed run can simply be retried.
func (s *Service) GenerateForPeriod(ctx context.Context, month, year int) (*GenerationResult, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	eligible, err := s.profiles.ListEligibleForBilling(ctx)
	if err != nil {
		return nil, fmt.Errorf("load eligible students: %w", err)
	}
	if len(eligible) == 0 {
		return &GenerationResult{Outcome: OutcomeNoEligibleStudents}, nil
	}

	existing, err := s.fees.ListByPeriod(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("load existing records: %w", err)
	}
	billed := make(map[int64]bool, len(existing))
	for _, fee := range existing {
		billed[fee.ProfileID] = true
	}

	dueDate := domain.DueDateFor(month, year)
	var toCreate []domain.MonthlyFee
	for _, p := range eligible {
		if billed[p.ID] {
			continue
		}
		toCreate = append(toCreate, domain.MonthlyFee{
			ProfileID: p.ID,
			Month:     month,
			Year:      year,
			Amount:    p.MonthlyFee.Round(2),
			DueDate:   dueDate,
			Status:    domain.FeePending,
		})
	}
	if len(toCreate) == 0 {
		return &GenerationResult{Outcome: OutcomeAlreadyGenerated}, nil
	}

	if err := s.fees.BulkCreate(ctx, toCreate); err != nil {
		if isUniqueConstraintError(err) {
			log.Printf("billing_generate month=%d year=%d outcome=lost_race err=%v", month, year, err)
			return &GenerationResult{Outcome: OutcomeAlreadyGenerated}, nil
		}
		return nil, fmt.Errorf("insert fee records: %w", err)
	}

	log.Printf("billing_generate month=%d year=%d created=%d", month, year, len(toCreate))
	return &GenerationResult{Outcome: OutcomeGenerated, Created: len(toCreate)}, nil
}

// RecordPayment marks a fee paid. Both payment fields are required before
// anything is touched; an already-paid record is rejected unchanged, and a
// cancelled record is terminal.
func (s *Service) RecordPayment(ctx context.Context, feeID int64, paymentDate time.Time, paymentMethod, notes string) (*domain.MonthlyFee, error) {
	if paymentDate.IsZero() || strings.TrimSpace(paymentMethod) == "" {
		return nil, ErrPaymentIncomplete
	}

	fee, err := s.loadFee(ctx, feeID)
	if err != nil {
		return nil, err
	}

	switch fee.Status {
	case domain.FeePaid:
		return nil, ErrAlreadyPaid
	case domain.FeeCancelled:
		return nil, ErrCancelled
	}

	method := strings.TrimSpace(paymentMethod)
	receipt := uuid.NewString()
	fee.Status = domain.FeePaid
	fee.PaidAt = &paymentDate
	fee.PaymentMethod = &method
	fee.ReceiptNumber = &receipt
	if notes != "" {
		fee.Notes = notes
	}

	if err := s.fees.Update(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// Cancel retires an unpaid fee record. Cancellation is terminal and a paid
// record is never cancellable.
func (s *Service) Cancel(ctx context.Context, feeID int64) (*domain.MonthlyFee, error) {
	fee, err := s.loadFee(ctx, feeID)
	if err != nil {
		return nil, err
	}

	switch fee.Status {
	case domain.FeeCancelled:
		return nil, ErrCancelled
	case domain.FeePaid:
		return nil, ErrPaidNotCancellable
	}

	fee.Status = domain.FeeCancelled
	if err := s.fees.Update(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// ApplyGlobalRateChange sets a new default fee on every eligible private
// student and reprices every pending record in one transaction. Paid and
// cancelled records keep the amount they were settled or retired at.
func (s *Service) ApplyGlobalRateChange(ctx context.Context, newAmount decimal.Decimal) (*RateChangeResult, error) {
	if newAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	amount := newAmount.Round(2)

	result := &RateChangeResult{NewAmount: amount}
	err := s.fees.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profilesTx := tx.Model(&domain.Profile{}).
			Where("is_private_student = ? AND approved = ?", true, true).
			Update("monthly_fee", amount)
		if profilesTx.Error != nil {
			return fmt.Errorf("update profile defaults: %w", profilesTx.Error)
		}
		result.ProfilesUpdated = int(profilesTx.RowsAffected)

		pendingTx := tx.Model(&domain.MonthlyFee{}).
			Where("status = ?", domain.FeePending).
			Update("amount", amount)
		if pendingTx.Error != nil {
			return fmt.Errorf("update pending records: %w", pendingTx.Error)
		}
		result.PendingUpdated = int(pendingTx.RowsAffected)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("billing_rate_change amount=%s profiles=%d pending=%d",
		amount.StringFixed(2), result.ProfilesUpdated, result.PendingUpdated)
	return result, nil
}

// MarkOverdue flips pending records whose due date has passed. Run from
// cmd/billing_sweep.
func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	tx := s.fees.DB().WithContext(ctx).Model(&domain.MonthlyFee{}).
		Where("status = ? AND due_date < ?", domain.FeePending, asOf).
		Update("status", domain.FeeOverdue)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return int(tx.RowsAffected), nil
}

func (s *Service) ListForPeriod(ctx context.Context, month, year int) ([]domain.MonthlyFee, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	return s.fees.ListByPeriod(ctx, month, year)
}

func (s *Service) ListForStudent(ctx context.Context, profileID int64) ([]domain.MonthlyFee, error) {
	return s.fees.ListByProfile(ctx, profileID)
}

// Summary aggregates a period for the financial report: counts and decimal
// totals per status bucket.
func (s *Service) Summary(ctx context.Context, month, year int) (*SummaryResponse, error) {
	fees, err := s.ListForPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}

	var billed, collected, outstanding, cancelled decimal.Decimal
	summary := &SummaryResponse{Month: month, Year: year, TotalRecords: len(fees)}
	for _, fee := range fees {
		switch fee.Status {
		case domain.FeePending:
			summary.PendingCount++
			billed = billed.Add(fee.Amount)
			outstanding = outstanding.Add(fee.Amount)
		case domain.FeeOverdue:
			summary.OverdueCount++
			billed = billed.Add(fee.Amount)
			outstanding = outstanding.Add(fee.Amount)
		case domain.FeePaid:
			summary.PaidCount++
			billed = billed.Add(fee.Amount)
			collected = collected.Add(fee.Amount)
		case domain.FeeCancelled:
			summary.CancelledCount++
			cancelled = cancelled.Add(fee.Amount)
		}
	}

	summary.TotalBilled = billed.StringFixed(2)
	summary.TotalCollected = collected.StringFixed(2)
	summary.TotalOutstanding = outstanding.StringFixed(2)
	summary.TotalCancelled = cancelled.StringFixed(2)
	return summary, nil
}

func (s *Service) loadFee(ctx context.Context, feeID int64) (*domain.MonthlyFee, error) {
	fee, err := s.fees.GetByID(ctx, feeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fee, nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return ErrInvalidPeriod
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
