package multitenancy

import (
	"errors"

	"gorm.io/gorm"

	"tenancy-service/internal/model"
)

// UserHasPermission reports whether the user holds a permission matching
// permissionString within the given organization. The check is
// existence-based: a user may hold the same permission through several
// roles, and any one grant suffices. When the permission string specifies
// access levels, any one of them matching suffices; without access levels
// the check matches regardless of access.
//
// Absence of the membership, role or permission all yield false, never an
// error: "does not have permission" and "does not exist" are deliberately
// collapsed. Only a malformed permission string or a failed query is an
// error.
func UserHasPermission(db *gorm.DB, userID, organizationID uint, permissionString string) (bool, error) {
	parsed, err := ParsePermissionString(permissionString)
	if err != nil {
		return false, err
	}

	query := db.Table("memberships").
		Joins("INNER JOIN membership_roles ON membership_roles.membership_id = memberships.id").
		Joins("INNER JOIN roles ON roles.id = membership_roles.role_id").
		Joins("INNER JOIN role_permissions ON role_permissions.role_id = roles.id").
		Joins("INNER JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("memberships.user_id = ? AND memberships.organization_id = ?", userID, organizationID).
		Where("permissions.entity = ? AND permissions.action = ?", parsed.Entity, string(parsed.Action))
	if parsed.Access != nil {
		query = query.Where("permissions.access IN ?", accessStrings(parsed.Access))
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UserHasRole reports whether the user holds the named role within the
// given organization. Nonexistent users, organizations and roles all yield
// false.
func UserHasRole(db *gorm.DB, userID, organizationID uint, roleName string) (bool, error) {
	var count int64
	err := db.Table("memberships").
		Joins("INNER JOIN membership_roles ON membership_roles.membership_id = memberships.id").
		Joins("INNER JOIN roles ON roles.id = membership_roles.role_id").
		Where("memberships.user_id = ? AND memberships.organization_id = ?", userID, organizationID).
		Where("roles.name = ?", roleName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UserHasPermissionInActiveOrg resolves the user's active organization and
// delegates to UserHasPermission. A user that cannot be resolved, or one
// without an active organization, fails with ErrNoActiveOrganization.
func UserHasPermissionInActiveOrg(db *gorm.DB, userID uint, permissionString string) (bool, error) {
	organizationID, err := activeOrganizationID(db, userID)
	if err != nil {
		return false, err
	}
	return UserHasPermission(db, userID, organizationID, permissionString)
}

// UserHasRoleInActiveOrg resolves the user's active organization and
// delegates to UserHasRole.
func UserHasRoleInActiveOrg(db *gorm.DB, userID uint, roleName string) (bool, error) {
	organizationID, err := activeOrganizationID(db, userID)
	if err != nil {
		return false, err
	}
	return UserHasRole(db, userID, organizationID, roleName)
}

func activeOrganizationID(db *gorm.DB, userID uint) (uint, error) {
	var user model.User
	err := db.Select("active_organization_id").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNoActiveOrganization
	}
	if err != nil {
		return 0, err
	}
	if user.ActiveOrganizationID == 0 {
		return 0, ErrNoActiveOrganization
	}
	return user.ActiveOrganizationID, nil
}

func accessStrings(access []Access) []string {
	out := make([]string, len(access))
	for i, a := range access {
		out[i] = string(a)
	}
	return out
}
