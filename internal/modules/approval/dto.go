package approval

import "dojoadmin/internal/domain"

type PendingListResponse struct {
	Profiles []domain.Profile `json:"profiles"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

type AssignRankRequest struct {
	Rank string `json:"rank" binding:"required"`
}

type FeeProgramRequest struct {
	IsPrivateStudent bool   `json:"is_private_student"`
	IsSocialProgram  bool   `json:"is_social_program"`
	MonthlyFee       string `json:"monthly_fee"`
}
