package billing

import "dojoadmin/internal/domain"

type GenerateRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
}

type RecordPaymentRequest struct {
	PaymentDate   string `json:"payment_date" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Notes         string `json:"notes"`
}

type RateChangeRequest struct {
	NewAmount string `json:"new_amount" binding:"required"`
}

type FeeListResponse struct {
	Fees  []domain.MonthlyFee `json:"fees"`
	Total int                 `json:"total"`
}

type SummaryResponse struct {
	Month            int    `json:"month"`
	Year             int    `json:"year"`
	TotalRecords     int    `json:"total_records"`
	PendingCount     int    `json:"pending_count"`
	PaidCount        int    `json:"paid_count"`
	OverdueCount     int    `json:"overdue_count"`
	CancelledCount   int    `json:"cancelled_count"`
	TotalBilled      string `json:"total_billed"`
	TotalCollected   string `json:"total_collected"`
	TotalOutstanding string `json:"total_outstanding"`
	TotalCancelled   string `json:"total_cancelled"`
}
