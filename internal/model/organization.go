package model

import (
	"time"
)

// Organization is the tenancy boundary. Memberships, role grants and
// permission checks are all scoped to one organization.
// Names are intentionally not unique: two customers may both call their
// organization "Acme".
type Organization struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
