package model

import (
	"time"
)

// Membership is the association between a user and one organization. It is
// also the anchor for per-organization role grants.
//
// A membership is in one of two states:
//   - pending invitation: UserID is null, InvitedEmail (and optionally
//     InvitedName) are set
//   - active: UserID is set, the invite fields are null
//
// Acceptance transitions pending to active exactly once by setting UserID
// and clearing the invite fields.
type Membership struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organization_id" gorm:"not null;uniqueIndex:idx_memberships_user_org,priority:2;uniqueIndex:idx_memberships_org_email,priority:1"`
	UserID         *uint     `json:"user_id,omitempty" gorm:"uniqueIndex:idx_memberships_user_org,priority:1"`
	InvitedName    *string   `json:"invited_name,omitempty" gorm:"type:varchar(255)"`
	InvitedEmail   *string   `json:"invited_email,omitempty" gorm:"type:varchar(320);uniqueIndex:idx_memberships_org_email,priority:2"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Pending reports whether the membership is an invitation that has not been
// accepted yet.
func (m *Membership) Pending() bool {
	return m.UserID == nil
}

// MembershipRole grants a globally defined role to one membership. The
// composite primary key rejects duplicate grants of the same role.
type MembershipRole struct {
	MembershipID uint `json:"membership_id" gorm:"primaryKey;autoIncrement:false"`
	RoleID       uint `json:"role_id" gorm:"primaryKey;autoIncrement:false"`
}
