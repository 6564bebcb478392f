package multitenancy

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tenancy-service/internal/model"
)

// InviteUserToOrganization creates a pending invitation for an email
// address, which may belong to a not-yet-registered person. The invitee has
// to accept before they are associated with the organization. The invite
// and its role grant (default MEMBER) are created in one transaction.
func InviteUserToOrganization(db *gorm.DB, email string, organizationID uint, roleName string) (*model.Membership, error) {
	if roleName == "" {
		roleName = model.RoleMember
	}

	var membership *model.Membership
	err := db.Transaction(func(tx *gorm.DB) error {
		var organization model.Organization
		err := tx.First(&organization, organizationID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Organization", Key: ""}
		}
		if err != nil {
			return err
		}

		membership, err = createPendingMembership(tx, organizationID, email, nil)
		if err != nil {
			return err
		}
		return AddRoleToMembership(tx, membership.ID, roleName)
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// AcceptInvitation transitions a pending membership to active: it sets the
// user id, clears the invite fields and points the user's active
// organization at the newly joined one so they land there immediately.
// Because acceptance clears the pending marker, a second accept of the same
// membership fails with ErrInvitationNotFound.
func AcceptInvitation(db *gorm.DB, membershipID, userID uint) (*model.Membership, error) {
	var membership model.Membership
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id IS NULL", membershipID).
			First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		if err != nil {
			return err
		}

		var user model.User
		err = tx.First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "User", Key: ""}
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&model.Membership{}).Where("id = ?", membershipID).
			Updates(map[string]interface{}{
				"user_id":       userID,
				"invited_name":  nil,
				"invited_email": nil,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("active_organization_id", membership.OrganizationID).Error; err != nil {
			return err
		}
		return tx.First(&membership, membershipID).Error
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// DeclineInvitation deletes a pending membership outright. It fails with
// ErrInvitationNotFound under the same conditions as AcceptInvitation.
func DeclineInvitation(db *gorm.DB, membershipID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var membership model.Membership
		err := tx.Where("id = ? AND user_id IS NULL", membershipID).
			First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		if err != nil {
			return err
		}
		return tx.Delete(&model.Membership{}, membershipID).Error
	})
}

// InvitationRole is a role attached to a pending invitation.
type InvitationRole struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// InvitationOrganization identifies the inviting organization.
type InvitationOrganization struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Invitation is a pending membership enriched with its organization and
// attached roles for display to the invitee.
type Invitation struct {
	ID           uint                   `json:"id"`
	Organization InvitationOrganization `json:"organization"`
	Roles        []InvitationRole       `json:"roles"`
	InvitedAt    time.Time              `json:"invited_at"`
}

// ListInvitations returns all pending invitations addressed to an email.
// An empty list is a valid, non-error result.
func ListInvitations(db *gorm.DB, email string) ([]Invitation, error) {
	var memberships []model.Membership
	if err := db.Where("invited_email = ? AND user_id IS NULL", email).
		Order("id").Find(&memberships).Error; err != nil {
		return nil, err
	}

	invitations := make([]Invitation, 0, len(memberships))
	for _, membership := range memberships {
		var organization model.Organization
		if err := db.First(&organization, membership.OrganizationID).Error; err != nil {
			return nil, err
		}

		var roles []InvitationRole
		err := db.Table("membership_roles").
			Select("roles.id, roles.name").
			Joins("INNER JOIN roles ON roles.id = membership_roles.role_id").
			Where("membership_roles.membership_id = ?", membership.ID).
			Scan(&roles).Error
		if err != nil {
			return nil, err
		}

		invitations = append(invitations, Invitation{
			ID: membership.ID,
			Organization: InvitationOrganization{
				ID:   organization.ID,
				Name: organization.Name,
			},
			Roles:     roles,
			InvitedAt: membership.CreatedAt,
		})
	}
	return invitations, nil
}
