package multitenancy

import (
	"errors"

	"gorm.io/gorm"

	"tenancy-service/internal/model"
)

// defaultEntities are the entities seeded with CRUD permissions.
var defaultEntities = []string{"user", "organization", "membership", "role"}

var defaultRoles = []model.Role{
	{Name: model.RoleOwner, Description: "Full access to organization resources"},
	{Name: model.RoleAdmin, Description: "Manage organization resources and users"},
	{Name: model.RoleMember, Description: "Basic access to organization resources"},
}

type rolePermissionRule struct {
	roleName string
	actions  []Action
	access   []Access
}

var defaultRolePermissions = []rolePermissionRule{
	{model.RoleOwner, []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, []Access{AccessOwn, AccessAny}},
	{model.RoleAdmin, []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, []Access{AccessOwn, AccessAny}},
	{model.RoleMember, []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}, []Access{AccessOwn}},
}

// Seed creates the well-known roles (OWNER, ADMIN, MEMBER), the default
// CRUD permissions per entity, and the role-permission wiring. It is
// idempotent: rows that already exist are left alone, so it can run on
// every startup. User provisioning depends on the OWNER role being present.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedRoles(tx); err != nil {
			return err
		}
		if err := seedPermissions(tx); err != nil {
			return err
		}
		return seedRolePermissions(tx)
	})
}

func seedRoles(tx *gorm.DB) error {
	for _, role := range defaultRoles {
		var existing model.Role
		err := tx.Where("name = ?", role.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if _, err := CreateRole(tx, role.Name, role.Description); err != nil {
			return err
		}
	}
	return nil
}

func seedPermissions(tx *gorm.DB) error {
	actions := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	accessLevels := []Access{AccessOwn, AccessAny}

	for _, entity := range defaultEntities {
		for _, action := range actions {
			for _, access := range accessLevels {
				// Creating or deleting someone's "own" row makes no sense.
				if (action == ActionCreate || action == ActionDelete) && access == AccessOwn {
					continue
				}

				var existing model.Permission
				err := tx.Where("action = ? AND entity = ? AND access = ?",
					string(action), entity, string(access)).First(&existing).Error
				if err == nil {
					continue
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				if _, err := CreatePermission(tx, action, entity, access); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedRolePermissions(tx *gorm.DB) error {
	for _, rule := range defaultRolePermissions {
		role, err := findRoleByName(tx, rule.roleName)
		if err != nil {
			return err
		}

		for _, action := range rule.actions {
			for _, access := range rule.access {
				var permissions []model.Permission
				err := tx.Where("action = ? AND access = ?", string(action), string(access)).
					Find(&permissions).Error
				if err != nil {
					return err
				}

				for _, permission := range permissions {
					var existing model.RolePermission
					err := tx.Where("role_id = ? AND permission_id = ?", role.ID, permission.ID).
						First(&existing).Error
					if err == nil {
						continue
					}
					if !errors.Is(err, gorm.ErrRecordNotFound) {
						return err
					}
					if err := tx.Create(&model.RolePermission{
						RoleID:       role.ID,
						PermissionID: permission.ID,
					}).Error; err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
