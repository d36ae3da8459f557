package domain

import "time"

// BeltRank is a catalog entry. Position orders ranks for display only;
// no progression rules are enforced from it.
type BeltRank struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex" json:"name"`
	Color       string    `gorm:"column:color" json:"color"`
	Position    int       `gorm:"column:position" json:"position"`
	Active      bool      `gorm:"column:active" json:"active"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (BeltRank) TableName() string { return "belt_ranks" }
