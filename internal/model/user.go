package model

import (
	"time"
)

// Global roles. The global role is independent of any per-organization
// role grants; regular signups always get CUSTOMER.
const (
	GlobalRoleSuperadmin = "SUPERADMIN"
	GlobalRoleCustomer   = "CUSTOMER"
)

// User represents the user model stored in the database.
// ActiveOrganizationID points at the organization the user is currently
// operating in; it must always reference an organization the user holds a
// membership in. This is enforced when switching, not by a DB constraint.
type User struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	Name                 string    `json:"name" gorm:"type:varchar(255)"`
	Email                string    `json:"email" gorm:"type:varchar(320);not null;uniqueIndex"`
	Password             string    `json:"-" gorm:"type:varchar(255)"`
	ActiveOrganizationID uint      `json:"active_organization_id" gorm:"not null;index"`
	GlobalRole           string    `json:"global_role" gorm:"type:varchar(20);not null;default:'CUSTOMER'"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
