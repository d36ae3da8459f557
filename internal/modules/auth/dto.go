package auth

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
	Emergency string `json:"emergency_contact"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest uses pointer fields for partial updates: an omitted
// field is left unchanged, an explicit empty string clears it.
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Address   *string `json:"address,omitempty"`
	Emergency *string `json:"emergency_contact,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type ProfileResponse struct {
	ID               int64   `json:"id"`
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	Phone            string  `json:"phone,omitempty"`
	BirthDate        string  `json:"birth_date,omitempty"`
	Address          string  `json:"address,omitempty"`
	Emergency        string  `json:"emergency_contact,omitempty"`
	Role             string  `json:"role"`
	Approved         bool    `json:"approved"`
	BeltRank         *string `json:"belt_rank,omitempty"`
	IsPrivateStudent bool    `json:"is_private_student"`
	IsSocialProgram  bool    `json:"is_social_program"`
	MonthlyFee       string  `json:"monthly_fee"`
	CreatedAt        string  `json:"created_at"`
}
