package multitenancy

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tenancy-service/internal/model"
)

// CreateMembership inserts an active membership linking a user to an
// organization. The unique (user_id, organization_id) constraint rejects a
// second membership for the same pair with gorm.ErrDuplicatedKey.
func CreateMembership(db *gorm.DB, userID, organizationID uint) (*model.Membership, error) {
	membership := model.Membership{
		OrganizationID: organizationID,
		UserID:         &userID,
	}
	if err := db.Create(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// createPendingMembership inserts an invitation membership addressed by
// email. Only exported operations (InviteUserToOrganization) call this.
func createPendingMembership(db *gorm.DB, organizationID uint, invitedEmail string, invitedName *string) (*model.Membership, error) {
	if invitedEmail == "" {
		return nil, &ValidationError{Field: "email", Message: "invited email must not be empty"}
	}

	var existing model.Membership
	err := db.Where("organization_id = ? AND invited_email = ?", organizationID, invitedEmail).
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("a membership already exists for this email in this organization: %w", gorm.ErrDuplicatedKey)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	membership := model.Membership{
		OrganizationID: organizationID,
		InvitedEmail:   &invitedEmail,
		InvitedName:    invitedName,
	}
	if err := db.Create(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// AddRoleToMembership grants the named role to a membership. A membership
// may hold many distinct roles; granting one it already holds surfaces as
// gorm.ErrDuplicatedKey.
func AddRoleToMembership(db *gorm.DB, membershipID uint, roleName string) error {
	role, err := findRoleByName(db, roleName)
	if err != nil {
		return err
	}
	return db.Create(&model.MembershipRole{MembershipID: membershipID, RoleID: role.ID}).Error
}

// RemoveRoleFromMembership revokes the named role from a membership. The
// role name must exist; removing a role the membership does not currently
// hold is a no-op.
func RemoveRoleFromMembership(db *gorm.DB, membershipID uint, roleName string) error {
	role, err := findRoleByName(db, roleName)
	if err != nil {
		return err
	}
	return db.Where("membership_id = ? AND role_id = ?", membershipID, role.ID).
		Delete(&model.MembershipRole{}).Error
}

// RemoveMembership deletes a membership together with all of its role
// grants in one transaction. Other memberships are untouched.
func RemoveMembership(db *gorm.DB, membershipID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var membership model.Membership
		err := tx.First(&membership, membershipID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Membership", Key: fmt.Sprintf("with id %d", membershipID)}
		}
		if err != nil {
			return err
		}

		if err := tx.Where("membership_id = ?", membershipID).
			Delete(&model.MembershipRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Membership{}, membershipID).Error
	})
}

// GetMembership returns the membership for a (user, organization) pair, or
// a NotFoundError when the user is not a member.
func GetMembership(db *gorm.DB, userID, organizationID uint) (*model.Membership, error) {
	var membership model.Membership
	err := db.Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "Membership", Key: ""}
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}
