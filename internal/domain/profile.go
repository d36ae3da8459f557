package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleMaster  Role = "master"
)

// Profile is the application-level record for a dojo member, distinct from
// the raw credential pair it authenticates with.
type Profile struct {
	ID           int64  `gorm:"column:id;primaryKey" json:"id"`
	Email        string `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:password_hash" json:"-"`
	Name         string `gorm:"column:name" json:"name"`
	Phone        string `gorm:"column:phone" json:"phone,omitempty"`
	BirthDate    string `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Address      string `gorm:"column:address" json:"address,omitempty"`
	Emergency    string `gorm:"column:emergency_contact" json:"emergency_contact,omitempty"`
	Notes        string `gorm:"column:notes" json:"notes,omitempty"`

	Role       Role       `gorm:"column:role" json:"role"`
	Approved   bool       `gorm:"column:approved" json:"approved"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	ApprovedBy *int64     `gorm:"column:approved_by" json:"approved_by,omitempty"`

	// Weak reference into the belt rank catalog by name. Cleared when the
	// rank is deleted, never cascaded.
	BeltRank *string `gorm:"column:belt_rank" json:"belt_rank,omitempty"`

	IsPrivateStudent bool            `gorm:"column:is_private_student" json:"is_private_student"`
	IsSocialProgram  bool            `gorm:"column:is_social_program" json:"is_social_program"`
	MonthlyFee       decimal.Decimal `gorm:"column:monthly_fee;type:decimal(10,2)" json:"monthly_fee"`

	// Revision guards approve/promote against concurrent masters racing on
	// the same target.
	Revision int `gorm:"column:revision;default:0" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// IsPrivileged reports whether the profile may perform master-level actions.
// Masters are never auto-approved: an unapproved master has no privileges.
func (p *Profile) IsPrivileged() bool {
	return p.Role == RoleMaster && p.Approved
}
