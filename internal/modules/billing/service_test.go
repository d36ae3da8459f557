package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dojoadmin/internal/database"
	"dojoadmin/internal/domain"
	"dojoadmin/internal/repository"
)

func setupTestService(t *testing.T) (*Service, *repository.ProfileRepository, *repository.FeeRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:billing_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	profiles := repository.NewProfileRepository(db)
	fees := repository.NewFeeRepository(db)
	return NewService(fees, profiles), profiles, fees
}

func createStudent(t *testing.T, profiles *repository.ProfileRepository, email string, fee string, approved, private bool) *domain.Profile {
	t.Helper()
	p := &domain.Profile{
		Email:            email,
		Name:             email,
		Role:             domain.RoleStudent,
		Approved:         approved,
		IsPrivateStudent: private,
		MonthlyFee:       decimal.RequireFromString(fee),
	}
	if err := profiles.Create(context.Background(), p); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func TestGenerateForPeriodCreatesRecords(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	createStudent(t, profiles, "a@dojo.local", "150.00", true, true)
	createStudent(t, profiles, "b@dojo.local", "150.00", true, true)

	result, err := svc.GenerateForPeriod(ctx, 3, 2025)
	if err != nil {
		t.Fatalf("GenerateForPeriod returned error: %v", err)
	}
	if result.Outcome != OutcomeGenerated {
		t.Fatalf("expected outcome %s, got %s", OutcomeGenerated, result.Outcome)
	}
	if result.Created != 2 {
		t.Fatalf("expected 2 records created, got %d", result.Created)
	}

	records, err := fees.ListByPeriod(ctx, 3, 2025)
	if err != nil {
		t.Fatalf("ListByPeriod: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	wantDue := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, rec := range records {
		if rec.Status != domain.FeePending {
			t.Fatalf("expected status pending, got %s", rec.Status)
		}
		if !rec.Amount.Equal(decimal.RequireFromString("150.00")) {
			t.Fatalf("expected amount 150.00, got %s", rec.Amount)
		}
		if !rec.DueDate.Equal(wantDue) {
			t.Fatalf("expected due date %s, got %s", wantDue, rec.DueDate)
		}
	}
}

func TestGenerateForPeriodIdempotent(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	createStudent(t, profiles, "a@dojo.local", "150.00", true, true)
	createStudent(t, profiles, "b@dojo.local", "200.00", true, true)

	if _, err := svc.GenerateForPeriod(ctx, 3, 2025); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	for i := 0; i < 3; i++ {
		result, err := svc.GenerateForPeriod(ctx, 3, 2025)
		if err != nil {
			t.Fatalf("repeat generate %d: %v", i, err)
		}
		if result.Outcome != OutcomeAlreadyGenerated {
			t.Fatalf("expected outcome %s, got %s", OutcomeAlreadyGenerated, result.Outcome)
		}
		if result.Created != 0 {
			t.Fatalf("expected 0 created on repeat, got %d", result.Created)
		}
	}

	records, err := fees.ListByPeriod(ctx, 3, 2025)
	if err != nil {
		t.Fatalf("ListByPeriod: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after repeats, got %d", len(records))
	}

	seen := map[int64]bool{}
	for _, rec := range records {
		if seen[rec.ProfileID] {
			t.Fatalf("duplicate record for profile %d", rec.ProfileID)
		}
		seen[rec.ProfileID] = true
	}
}

// staleViewFeeRepo simulates a master whose duplicate check ran before
// another master's insert landed: ListByPeriod sees nothing, so the only
// thing standing between the two runs is the unique index.
type staleViewFeeRepo struct {
	*repository.FeeRepository
}

func (r *staleViewFeeRepo) ListByPeriod(ctx context.Context, month, year int) ([]domain.MonthlyFee, error) {
	return nil, nil
}

func TestGenerateForPeriodLostInsertRace(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	createStudent(t, profiles, "a@dojo.local", "150.00", true, true)

	// first master's generation has already landed
	if _, err := svc.GenerateForPeriod(ctx, 3, 2025); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	// second master races with a pre-insert view of the period
	racing := NewService(&staleViewFeeRepo{fees}, profiles)
	result, err := racing.GenerateForPeriod(ctx, 3, 2025)
	if err != nil {
		t.Fatalf("racing generate must not fail: %v", err)
	}
	if result.Outcome != OutcomeAlreadyGenerated {
		t.Fatalf("expected outcome %s from the lost race, got %s", OutcomeAlreadyGenerated, result.Outcome)
	}
	if result.Created != 0 {
		t.Fatalf("expected 0 created from the lost race, got %d", result.Created)
	}

	records, err := fees.ListByPeriod(ctx, 3, 2025)
	if err != nil {
		t.Fatalf("ListByPeriod: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record after the race, got %d", len(records))
	}
}

func TestGenerateForPeriodNoEligibleStudents(t *testing.T) {
	svc, profiles, _ := setupTestService(t)
	ctx := context.Background()

	// unapproved private student and an approved social-program student:
	// neither is eligible
	createStudent(t, profiles, "pending@dojo.local", "150.00", false, true)
	social := createStudent(t, profiles, "social@dojo.local", "0", true, false)
	social.IsSocialProgram = true
	if err := profiles.Update(ctx, social); err != nil {
		t.Fatalf("update social student: %v", err)
	}

	result, err := svc.GenerateForPeriod(ctx, 3, 2025)
	if err != nil {
		t.Fatalf("GenerateForPeriod returned error: %v", err)
	}
	if result.Outcome != OutcomeNoEligibleStudents {
		t.Fatalf("expected outcome %s, got %s", OutcomeNoEligibleStudents, result.Outcome)
	}
	if result.Created != 0 {
		t.Fatalf("expected 0 created, got %d", result.Created)
	}
}

func TestGenerateForPeriodBackfillsMissingStudents(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	a := createStudent(t, profiles, "a@dojo.local", "150.00", true, true)

	if _, err := svc.GenerateForPeriod(ctx, 4, 2025); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	b := createStudent(t, profiles, "b@dojo.local", "180.00", true, true)

	result, err := svc.GenerateForPeriod(ctx, 4, 2025)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if result.Outcome != OutcomeGenerated || result.Created != 1 {
		t.Fatalf("expected 1 created for backfill, got outcome=%s created=%d", result.Outcome, result.Created)
	}

	records, _ := fees.ListByPeriod(ctx, 4, 2025)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	amounts := map[int64]decimal.Decimal{}
	for _, rec := range records {
		amounts[rec.ProfileID] = rec.Amount
	}
	if !amounts[a.ID].Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("record for first student must keep its original amount")
	}
	if !amounts[b.ID].Equal(decimal.RequireFromString("180.00")) {
		t.Fatalf("record for backfilled student must use the current fee")
	}
}

func TestGenerateForPeriodRejectsInvalidPeriod(t *testing.T) {
	svc, _, _ := setupTestService(t)

	for _, tc := range []struct{ month, year int }{
		{0, 2025}, {13, 2025}, {6, 1899}, {6, 2101},
	} {
		if _, err := svc.GenerateForPeriod(context.Background(), tc.month, tc.year); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("expected ErrInvalidPeriod for (%d, %d), got %v", tc.month, tc.year, err)
		}
	}
}

func TestRecordPaymentRequiresDateAndMethod(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	createStudent(t, profiles, "a@dojo.local", "150.00", true, true)
	if _, err := svc.GenerateForPeriod(ctx, 3, 2025); err != nil {
		t.Fatalf("generate: %v", err)
	}
	records, _ := fees.ListByPeriod(ctx, 3, 2025)
	feeID := records[0].ID

	if _, err := svc.RecordPayment(ctx, feeID, time.Time{}, "pix", ""); !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete for zero date, got %v", err)
	}
	if _, err := svc.RecordPayment(ctx, feeID, time.Now(), "   ", ""); !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete for blank method, got %v", err)
	}

	// state must be untouched after the rejections
	rec, _ := fees.GetByID(ctx, feeID)
	if rec.Status != domain.FeePending {
		t.Fatalf("expected record still pending, got %s", rec.Status)
	}
	if rec.PaidAt != nil || rec.PaymentMethod != nil {
		t.Fatalf("expected payment fields untouched")
	}
}

func TestRecordPaymentTransitions(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	createStudent(t, profiles, "a@dojo.local", "150.00", true, true)
	if _, err := svc.GenerateForPeriod(ctx, 3, 2025); err != nil {
		t.Fatalf("generate: %v", err)
	}
	records, _ := fees.ListByPeriod(ctx, 3, 2025)
	feeID := records[0].ID

	payDate := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	paid, err := svc.RecordPayment(ctx, feeID, payDate, "pix", "")
	if err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}
	if paid.Status != domain.FeePaid {
		t.Fatalf("expected status paid, got %s", paid.Status)
	}
	if paid.PaidAt == nil || paid.PaymentMethod == nil {
		t.Fatalf("paid record must carry payment date and method")
	}
	if paid.ReceiptNumber == nil || *paid.ReceiptNumber == "" {
		t.Fatalf("paid record must carry a receipt number")
	}

	if _, err := svc.RecordPayment(ctx, feeID, payDate, "cash", ""); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
	if _, err := svc.Cancel(ctx, feeID); !errors.Is(err, ErrPaidNotCancellable) {
		t.Fatalf("expected ErrPaidNotCancellable, got %v", err)
	}
}

func TestCancelIsTerminal(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	createStudent(t, profiles, "a@dojo.local", "150.00", true, true)
	if _, err := svc.GenerateForPeriod(ctx, 3, 2025); err != nil {
		t.Fatalf("generate: %v", err)
	}
	records, _ := fees.ListByPeriod(ctx, 3, 2025)
	feeID := records[0].ID

	cancelled, err := svc.Cancel(ctx, feeID)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if cancelled.Status != domain.FeeCancelled {
		t.Fatalf("expected status cancelled, got %s", cancelled.Status)
	}

	if _, err := svc.Cancel(ctx, feeID); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled on second cancel, got %v", err)
	}
	if _, err := svc.RecordPayment(ctx, feeID, time.Now(), "cash", ""); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled on paying a cancelled record, got %v", err)
	}
}

func TestRecordPaymentNotFound(t *testing.T) {
	svc, _, _ := setupTestService(t)

	if _, err := svc.RecordPayment(context.Background(), 9999, time.Now(), "pix", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Mirrors the canonical pricing scenario: a settled record keeps the amount
// it was paid at while outstanding records and profile defaults move.
func TestApplyGlobalRateChangeScope(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	a := createStudent(t, profiles, "a@dojo.local", "150.00", true, true)
	b := createStudent(t, profiles, "b@dojo.local", "150.00", true, true)

	if _, err := svc.GenerateForPeriod(ctx, 3, 2025); err != nil {
		t.Fatalf("generate: %v", err)
	}

	result, err := svc.ApplyGlobalRateChange(ctx, decimal.RequireFromString("180.00"))
	if err != nil {
		t.Fatalf("ApplyGlobalRateChange returned error: %v", err)
	}
	if result.ProfilesUpdated != 2 || result.PendingUpdated != 2 {
		t.Fatalf("expected 2 profiles and 2 pending updated, got %d/%d", result.ProfilesUpdated, result.PendingUpdated)
	}

	records, _ := fees.ListByPeriod(ctx, 3, 2025)
	var feeA, feeB *domain.MonthlyFee
	for i := range records {
		switch records[i].ProfileID {
		case a.ID:
			feeA = &records[i]
		case b.ID:
			feeB = &records[i]
		}
	}

	payDate := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	if _, err := svc.RecordPayment(ctx, feeA.ID, payDate, "pix", ""); err != nil {
		t.Fatalf("pay A: %v", err)
	}

	if _, err := svc.ApplyGlobalRateChange(ctx, decimal.RequireFromString("200.00")); err != nil {
		t.Fatalf("second rate change: %v", err)
	}

	gotA, _ := fees.GetByID(ctx, feeA.ID)
	if !gotA.Amount.Equal(decimal.RequireFromString("180.00")) {
		t.Fatalf("paid record must keep its amount, got %s", gotA.Amount)
	}
	gotB, _ := fees.GetByID(ctx, feeB.ID)
	if !gotB.Amount.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("pending record must carry the new amount, got %s", gotB.Amount)
	}

	profA, _ := profiles.GetByID(ctx, a.ID)
	if !profA.MonthlyFee.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("profile default must carry the new amount, got %s", profA.MonthlyFee)
	}
}

func TestApplyGlobalRateChangeRejectsNonPositive(t *testing.T) {
	svc, _, _ := setupTestService(t)

	for _, amount := range []string{"0", "-10"} {
		if _, err := svc.ApplyGlobalRateChange(context.Background(), decimal.RequireFromString(amount)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %s, got %v", amount, err)
		}
	}
}

func TestMarkOverdue(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	createStudent(t, profiles, "a@dojo.local", "150.00", true, true)
	if _, err := svc.GenerateForPeriod(ctx, 3, 2025); err != nil {
		t.Fatalf("generate: %v", err)
	}

	// before the due date nothing flips
	flipped, err := svc.MarkOverdue(ctx, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}
	if flipped != 0 {
		t.Fatalf("expected 0 flipped before due date, got %d", flipped)
	}

	flipped, err = svc.MarkOverdue(ctx, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}
	if flipped != 1 {
		t.Fatalf("expected 1 flipped after due date, got %d", flipped)
	}

	records, _ := fees.ListByPeriod(ctx, 3, 2025)
	if records[0].Status != domain.FeeOverdue {
		t.Fatalf("expected status overdue, got %s", records[0].Status)
	}
}

func TestSummaryBuckets(t *testing.T) {
	svc, profiles, fees := setupTestService(t)
	ctx := context.Background()

	createStudent(t, profiles, "a@dojo.local", "100.00", true, true)
	createStudent(t, profiles, "b@dojo.local", "100.00", true, true)
	createStudent(t, profiles, "c@dojo.local", "100.00", true, true)

	if _, err := svc.GenerateForPeriod(ctx, 5, 2025); err != nil {
		t.Fatalf("generate: %v", err)
	}
	records, _ := fees.ListByPeriod(ctx, 5, 2025)

	payDate := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	if _, err := svc.RecordPayment(ctx, records[0].ID, payDate, "cash", ""); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if _, err := svc.Cancel(ctx, records[1].ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	summary, err := svc.Summary(ctx, 5, 2025)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalRecords != 3 || summary.PaidCount != 1 || summary.CancelledCount != 1 || summary.PendingCount != 1 {
		t.Fatalf("unexpected summary counts: %+v", summary)
	}
	if summary.TotalBilled != "200.00" {
		t.Fatalf("expected billed 200.00, got %s", summary.TotalBilled)
	}
	if summary.TotalCollected != "100.00" {
		t.Fatalf("expected collected 100.00, got %s", summary.TotalCollected)
	}
	if summary.TotalOutstanding != "100.00" {
		t.Fatalf("expected outstanding 100.00, got %s", summary.TotalOutstanding)
	}
	if summary.TotalCancelled != "100.00" {
		t.Fatalf("expected cancelled total 100.00, got %s", summary.TotalCancelled)
	}
}
